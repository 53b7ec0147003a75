package slack

import (
	"fmt"
	"time"

	"progress-bot/internal/model"
)

// Builders for the bot's structured messages: the channel echo
// attachment, the morning intro blocks and the configuration dialog.

// StandupAttachment renders a completed standup for the shared channel.
func StandupAttachment(user *model.User, standup *model.Standup, completedLast string, ts int64) []map[string]any {
	pretext := ":newspaper: Here's the latest:"
	return []map[string]any{{
		"pretext":     pretext,
		"author_name": user.RealName,
		"author_icon": user.AvatarURL,
		"footer":      "@progress",
		"ts":          ts,
		"fields": []map[string]any{
			{
				"title": "Yesterday:",
				"value": fmt.Sprintf("%s\n%s", completedLast, deref(standup.PrevDay)),
				"short": false,
			},
			{
				"title": "Today:",
				"value": deref(standup.Day),
				"short": false,
			},
			{
				"title": "Blockers:",
				"value": deref(standup.Blocker),
				"short": false,
			},
		},
	}}
}

// IntroBlocks is the morning greeting. First-time users get a short
// welcome; returning users get their last standup's tasks with
// done/not-done toggle buttons, then the prompt for today.
func IntroBlocks(latest, todays *model.Standup, channel *string) []map[string]any {
	greet := "*:wave: Thanks for checking in today.*"

	if latest == nil {
		intro := "This is your first time using _@progress_, welcome! We'll make this super quick for you."
		return []map[string]any{
			section(fmt.Sprintf("%s\n%s\n\n%s", greet, intro, todays.Prompt(channel))),
		}
	}

	when := latest.Date
	if latest.LocalDate != nil {
		when = *latest.LocalDate
	}

	blocks := []map[string]any{
		section(fmt.Sprintf("%s\nHere's what you were busy with last time we met:\n", greet)),
		section(fmt.Sprintf("*:calendar:  %s*", formatDate(when))),
		divider(),
	}

	tasks := model.TasksFrom(latest)
	if len(tasks) == 0 {
		blocks = append(blocks, section("> - _Empty_"))
	}
	for i, task := range tasks {
		value := fmt.Sprintf("%d-%d", i+1, task.StandupID)
		if task.Done {
			blocks = append(blocks, sectionWithButton(
				fmt.Sprintf(":white_check_mark: %s", task.Content),
				"Mark as not done", "set-task-not-done", value, ""))
		} else {
			blocks = append(blocks, sectionWithButton(
				task.Content,
				"Mark as done", "set-task-done", value, "primary"))
		}
	}

	return append(blocks,
		divider(),
		section(todays.Prompt(channel)),
	)
}

// ConfigDialog builds the dialog.open payload body, prefilled with the
// user's current channel and reminder hour.
func ConfigDialog(channel, reminder string) map[string]any {
	hours := []map[string]any{}
	for h := 7; h <= 13; h++ {
		hours = append(hours, map[string]any{
			"label": fmt.Sprintf("%02d:00", h),
			"value": fmt.Sprintf("%d", h),
		})
	}

	return map[string]any{
		"callback_id":      "progress-config",
		"title":            "Configure @progress",
		"submit_label":     "Save",
		"notify_on_cancel": false,
		"elements": []map[string]any{
			{
				"type":        "select",
				"optional":    "true",
				"label":       "Channel to notify",
				"name":        "channel",
				"data_source": "conversations",
				"value":       channel,
			},
			{
				"type":     "select",
				"optional": "true",
				"label":    "Reminder",
				"name":     "reminder",
				"value":    reminder,
				"options":  hours,
			},
		},
	}
}

// formatDate renders a past standup date relative to now: yesterday,
// earlier this week, last week, or the full date.
func formatDate(date time.Time) string {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	daysAgo := int(today.Sub(day).Hours() / 24)

	switch {
	case daysAgo == 1:
		return date.Format("Yesterday, around 3pm")
	case daysAgo < 7:
		if weekdayFromMonday(now) > weekdayFromMonday(date) {
			return date.Format("This Monday, around 3pm")
		}
		return date.Format("Last Monday, around 3pm")
	default:
		return date.Format("Monday, 02 January 2006, around 3pm")
	}
}

func weekdayFromMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func section(text string) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": text},
	}
}

func sectionWithButton(text, buttonText, actionID, value, style string) map[string]any {
	button := map[string]any{
		"type":      "button",
		"text":      map[string]any{"type": "plain_text", "text": buttonText},
		"value":     value,
		"action_id": actionID,
	}
	if style != "" {
		button["style"] = style
	}
	blk := section(text)
	blk["accessory"] = button
	return blk
}

func divider() map[string]any {
	return map[string]any{"type": "divider"}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
