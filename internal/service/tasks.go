package service

import (
	"context"
	"fmt"
	"strings"

	"progress-bot/internal/model"
	"progress-bot/internal/store"
)

const noStandupYetCopy = "Couldn't find todays standup, sorry. Mention @progress or send me a message to start the standup flow."

// TodayTasks renders the task list for today's standup: a header plus
// the derived tasks, or corrective copy when there is nothing to list.
func (s *Service) TodayTasks(ctx context.Context, userID, teamID string) (string, []model.Task, error) {
	user, err := s.resolveUser(ctx, userID, teamID)
	if err != nil {
		return "", nil, err
	}

	todays, err := s.store.TodayStandup(ctx, userID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	if todays.Day == nil {
		return fmt.Sprintf("You still haven't told me what you'll be doing today! Please finish your standup first. \n %s", todays.Prompt(user.Channel)), nil, nil
	}

	tasks := model.TasksFrom(todays)
	return model.TaskSummaryHeader(user.RealName, tasks), tasks, nil
}

// SetTaskDone marks a task complete on a specific standup. Marking an
// already done task is a visible no-op.
func (s *Service) SetTaskDone(ctx context.Context, task, standupID int) (string, error) {
	standup, err := s.store.StandupByID(ctx, standupID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil
	}
	if err != nil {
		return "", err
	}

	if !standup.MarkDone(task) {
		return fmt.Sprintf("Task %d was already done!", task), nil
	}
	if err := s.store.UpdateStandup(ctx, standup); err != nil {
		return "", err
	}
	return fmt.Sprintf("Got it, marked task %d as *done*. Here's today: \n%s",
		task, model.PrintTasks(model.TasksFrom(standup))), nil
}

// SetTaskNotDone reverses a done mark.
func (s *Service) SetTaskNotDone(ctx context.Context, task, standupID int) (string, error) {
	standup, err := s.store.StandupByID(ctx, standupID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil
	}
	if err != nil {
		return "", err
	}

	if !standup.MarkNotDone(task) {
		return fmt.Sprintf("Task %d was not marked as done yet.", task), nil
	}
	if err := s.store.UpdateStandup(ctx, standup); err != nil {
		return "", err
	}
	return fmt.Sprintf("Got it, marked task %d as *not done*. Here's today: \n%s",
		task, model.PrintTasks(model.TasksFrom(standup))), nil
}

// SetTodayTaskDone resolves today's standup for the user and marks the
// task there.
func (s *Service) SetTodayTaskDone(ctx context.Context, task int, userID string) (string, error) {
	todays, err := s.store.TodayStandup(ctx, userID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil
	}
	if err != nil {
		return "", err
	}
	return s.SetTaskDone(ctx, task, todays.ID)
}

// SetTodayTaskNotDone is the undo counterpart of SetTodayTaskDone.
func (s *Service) SetTodayTaskNotDone(ctx context.Context, task int, userID string) (string, error) {
	todays, err := s.store.TodayStandup(ctx, userID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil
	}
	if err != nil {
		return "", err
	}
	return s.SetTaskNotDone(ctx, task, todays.ID)
}

// AddTaskToToday appends a line to today's Day text and refreshes the
// channel echo when one exists.
func (s *Service) AddTaskToToday(ctx context.Context, task, userID string) (string, error) {
	todays, err := s.store.TodayStandup(ctx, userID)
	if err == store.ErrNotFound {
		return noStandupYetCopy, nil
	}
	if err != nil {
		return "", err
	}

	day := ""
	if todays.Day != nil {
		day = *todays.Day
	}
	combined := strings.TrimSpace(day + "\n" + task)
	todays.Day = &combined

	if err := s.store.UpdateStandup(ctx, todays); err != nil {
		return "", err
	}

	if todays.Channel != nil {
		user, uerr := s.store.GetUser(ctx, userID)
		if uerr == nil {
			s.refreshChannelEcho(user, todays.ID)
		}
	}
	return ":white_check_mark: Task added.", nil
}
