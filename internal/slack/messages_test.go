package slack

import (
	"testing"
	"time"

	"progress-bot/internal/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestStandupAttachmentFields(t *testing.T) {
	user := &model.User{RealName: "Ada", AvatarURL: "https://img/ada.png"}
	standup := &model.Standup{
		PrevDay: strptr("fixed login"),
		Day:     strptr("ship release"),
		Blocker: strptr("none"),
	}

	attachments := StandupAttachment(user, standup, ":white_check_mark: old task", 1700000000)
	require.Len(t, attachments, 1)

	att := attachments[0]
	assert.Equal(t, "Ada", att["author_name"])
	assert.Equal(t, "@progress", att["footer"])

	fields, ok := att["fields"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, fields, 3)
	assert.Equal(t, "Yesterday:", fields[0]["title"])
	assert.Contains(t, fields[0]["value"], ":white_check_mark: old task")
	assert.Contains(t, fields[0]["value"], "fixed login")
	assert.Equal(t, "ship release", fields[1]["value"])
	assert.Equal(t, "none", fields[2]["value"])
}

func TestIntroBlocksFirstTime(t *testing.T) {
	todays := model.NewStandup("U1", "T1")

	blocks := IntroBlocks(nil, todays, nil)
	require.Len(t, blocks, 1)

	text := blocks[0]["text"].(map[string]any)["text"].(string)
	assert.Contains(t, text, "first time using _@progress_")
	assert.Contains(t, text, ":one:", "prompt for the first question is attached")
}

func TestIntroBlocksReturningUser(t *testing.T) {
	latest := model.NewStandup("U1", "T1")
	latest.Date = latest.Date.AddDate(0, 0, -1)
	latest.PrevDay = strptr("-")
	latest.Day = strptr("write tests\nfix deploy")
	latest.Blocker = strptr("none")
	latest.ID = 7
	latest.Done = pq.Int64Array{1}
	todays := model.NewStandup("U1", "T1")

	blocks := IntroBlocks(latest, todays, nil)
	require.GreaterOrEqual(t, len(blocks), 6)

	var buttons []map[string]any
	for _, blk := range blocks {
		if acc, ok := blk["accessory"].(map[string]any); ok {
			buttons = append(buttons, acc)
		}
	}
	require.Len(t, buttons, 2)
	assert.Equal(t, "set-task-not-done", buttons[0]["action_id"], "done task offers undo")
	assert.Equal(t, "1-7", buttons[0]["value"])
	assert.Equal(t, "set-task-done", buttons[1]["action_id"])
	assert.Equal(t, "2-7", buttons[1]["value"])

	last := blocks[len(blocks)-1]["text"].(map[string]any)["text"].(string)
	assert.Contains(t, last, ":one:", "greeting ends with today's prompt")
}

func TestIntroBlocksEmptyTaskList(t *testing.T) {
	latest := model.NewStandup("U1", "T1")
	latest.Date = latest.Date.AddDate(0, 0, -2)
	latest.PrevDay = strptr("a")
	latest.Blocker = strptr("none")
	todays := model.NewStandup("U1", "T1")

	blocks := IntroBlocks(latest, todays, nil)

	found := false
	for _, blk := range blocks {
		if txt, ok := blk["text"].(map[string]any); ok {
			if txt["text"] == "> - _Empty_" {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestFormatDateRelative(t *testing.T) {
	now := time.Now()

	yesterday := now.AddDate(0, 0, -1)
	assert.Contains(t, formatDate(yesterday), "Yesterday, around")

	long := now.AddDate(0, 0, -30)
	assert.Contains(t, formatDate(long), long.Format("Monday, 02 January 2006"))
}
