package model

import (
	"fmt"
	"strings"
)

// Task is one line of a standup's Day text. Tasks are derived fresh on
// every read and identified purely by line position; they are never
// stored on their own. All derivation funnels through TasksFrom so any
// future stable-identity scheme only has one seam to touch.
type Task struct {
	Content   string
	Done      bool
	Prefix    string
	StandupID int
}

func (t Task) String() string {
	if t.Done {
		return fmt.Sprintf(":white_check_mark: ~%s~", t.Content)
	}
	return fmt.Sprintf("%s %s", t.Prefix, t.Content)
}

// TasksFrom splits the Day text on newlines into 1-based tasks, marking
// each done when its index is present in the standup's done set. A nil
// Day yields no tasks. Done indices beyond the line count are ignored.
func TasksFrom(s *Standup) []Task {
	if s.Day == nil {
		return nil
	}
	done := map[int64]bool{}
	for _, i := range s.Done {
		done[i] = true
	}

	lines := strings.Split(*s.Day, "\n")
	tasks := make([]Task, 0, len(lines))
	for i, line := range lines {
		tasks = append(tasks, Task{
			Content:   strings.TrimSpace(line),
			Done:      done[int64(i+1)],
			Prefix:    NumberEmoji(i + 1),
			StandupID: s.ID,
		})
	}
	return tasks
}

// MarkDone adds a 1-based task index to the done set. Adding an index
// that is already present is a no-op; the bool reports whether the set
// changed.
func (s *Standup) MarkDone(task int) bool {
	for _, i := range s.Done {
		if i == int64(task) {
			return false
		}
	}
	s.Done = append(s.Done, int64(task))
	return true
}

// MarkNotDone removes a 1-based task index from the done set, reporting
// whether it was present.
func (s *Standup) MarkNotDone(task int) bool {
	for idx, i := range s.Done {
		if i == int64(task) {
			s.Done = append(s.Done[:idx], s.Done[idx+1:]...)
			return true
		}
	}
	return false
}

// PrintTasks renders a task list as quoted lines for a Slack reply.
func PrintTasks(tasks []Task) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("> %s", t))
	}
	return strings.Join(lines, "\n")
}

// TaskSummaryHeader produces the header line for a task list: one of the
// all-done, partially-done and none-done phrasings.
func TaskSummaryHeader(realName string, tasks []Task) string {
	total := len(tasks)
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}

	switch {
	case total == done:
		return fmt.Sprintf("Hey %s, you've completed all your tasks for *today*, well done! :tada:", realName)
	case done > 0:
		return fmt.Sprintf("Hey %s, you've completed %d/%d tasks you have in store for *today*:", realName, done, total)
	default:
		word := "tasks"
		if total == 1 {
			word = "task"
		}
		return fmt.Sprintf("Hey %s, you have %d %s in store for *today*:", realName, total, word)
	}
}

var digitEmoji = map[rune]string{
	'0': ":zero:",
	'1': ":one:",
	'2': ":two:",
	'3': ":three:",
	'4': ":four:",
	'5': ":five:",
	'6': ":six:",
	'7': ":seven:",
	'8': ":eight:",
	'9': ":nine:",
}

// NumberEmoji renders n digit by digit as Slack keycap emoji.
func NumberEmoji(n int) string {
	var sb strings.Builder
	for _, d := range fmt.Sprintf("%d", n) {
		sb.WriteString(digitEmoji[d])
	}
	return sb.String()
}
