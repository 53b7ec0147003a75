package model

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standupWithDay(day string, done ...int64) *Standup {
	s := NewStandup("U1", "T1")
	s.ID = 7
	s.Day = &day
	s.Done = pq.Int64Array(done)
	return s
}

func TestTasksFrom(t *testing.T) {
	t.Run("derives positional tasks", func(t *testing.T) {
		tasks := TasksFrom(standupWithDay("a\nb\nc", 2))

		require.Len(t, tasks, 3)
		assert.Equal(t, Task{Content: "a", Done: false, Prefix: ":one:", StandupID: 7}, tasks[0])
		assert.Equal(t, Task{Content: "b", Done: true, Prefix: ":two:", StandupID: 7}, tasks[1])
		assert.Equal(t, Task{Content: "c", Done: false, Prefix: ":three:", StandupID: 7}, tasks[2])
	})

	t.Run("trims line content", func(t *testing.T) {
		tasks := TasksFrom(standupWithDay("  padded  \nplain"))
		assert.Equal(t, "padded", tasks[0].Content)
	})

	t.Run("nil day yields nothing", func(t *testing.T) {
		assert.Empty(t, TasksFrom(NewStandup("U1", "T1")))
	})

	t.Run("out of range done indices are ignored", func(t *testing.T) {
		tasks := TasksFrom(standupWithDay("a\nb", 4))
		for _, task := range tasks {
			assert.False(t, task.Done)
		}
	})
}

func TestMarkDoneRoundTrip(t *testing.T) {
	s := standupWithDay("a\nb\nc")

	require.True(t, s.MarkDone(2))
	assert.False(t, s.MarkDone(2), "second mark is a no-op")
	assert.Equal(t, pq.Int64Array{2}, s.Done)

	require.True(t, s.MarkNotDone(2))
	assert.False(t, s.MarkNotDone(2))
	assert.Empty(t, s.Done)
}

func TestMarkDoneOutOfRangeDoesNotCorrupt(t *testing.T) {
	s := standupWithDay("a\nb")
	s.MarkDone(4)

	tasks := TasksFrom(s)
	require.Len(t, tasks, 2)
	assert.False(t, tasks[0].Done)
	assert.False(t, tasks[1].Done)
}

func TestTaskSummaryHeader(t *testing.T) {
	all := []Task{{Done: true}, {Done: true}}
	some := []Task{{Done: true}, {}, {}}
	none := []Task{{}}

	assert.Contains(t, TaskSummaryHeader("Rui", all), "all your tasks")
	assert.Contains(t, TaskSummaryHeader("Rui", some), "1/3 tasks")
	assert.Contains(t, TaskSummaryHeader("Rui", none), "1 task in store")
	assert.Contains(t, TaskSummaryHeader("Rui", []Task{{}, {}}), "2 tasks in store")
}

func TestNumberEmoji(t *testing.T) {
	assert.Equal(t, ":one:", NumberEmoji(1))
	assert.Equal(t, ":one::zero:", NumberEmoji(10))
	assert.Equal(t, ":two::three:", NumberEmoji(23))
}

func TestPrintTasks(t *testing.T) {
	tasks := TasksFrom(standupWithDay("a\nb", 1))
	out := PrintTasks(tasks)
	assert.Equal(t, "> :white_check_mark: ~a~\n> :two: b", out)
}
