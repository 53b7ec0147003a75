package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"progress-bot/internal/delivery"
	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

// OpenConfigDialog opens the configuration dialog for a slash command,
// prefilled with the user's current settings.
func (s *Service) OpenConfigDialog(ctx context.Context, cmd *model.SlashCommand) error {
	channel, reminder := "", ""
	user, err := s.store.GetUser(ctx, cmd.UserID)
	if err == nil {
		if user.Channel != nil {
			channel = *user.Channel
		}
		if user.Reminder != nil {
			// stored hour is shifted down by one; see ApplyConfig
			reminder = strconv.Itoa(user.Reminder.Hour() + 1)
		}
	} else if err != store.ErrNotFound {
		return err
	}

	token, err := s.store.BotTokenForTeam(ctx, cmd.TeamID)
	if err != nil {
		return fmt.Errorf("resolve bot token: %w", err)
	}

	triggerID := cmd.TriggerID
	dialog := slack.ConfigDialog(channel, reminder)
	qerr := s.queue.Enqueue(delivery.Job{
		Name: "open-config-dialog",
		Run: func(ctx context.Context) error {
			return s.slack.OpenDialog(ctx, token, triggerID, dialog)
		},
	})
	if qerr != nil {
		logger.Error("enqueue dialog open failed", "user", cmd.UserID, "err", qerr)
	}
	return nil
}

// ApplyConfig persists a dialog submission (reporting channel and
// reminder hour) and returns the confirmation copy.
func (s *Service) ApplyConfig(ctx context.Context, payload *model.Interaction) (string, error) {
	user, err := s.resolveUser(ctx, payload.User.ID, payload.Team.ID)
	if err != nil {
		return "", err
	}

	submission := payload.Submission
	if submission == nil {
		submission = &model.ConfigSubmission{}
	}

	user.Channel = submission.Channel
	if submission.Reminder != nil {
		hour, err := strconv.Atoi(strings.TrimSpace(*submission.Reminder))
		if err != nil {
			return ":warning: That reminder didn't look like an hour, sorry.", nil
		}
		// stored one hour earlier than picked; existing rows encode the
		// reminder this way, OpenConfigDialog shifts it back up
		now := time.Now().UTC()
		at := time.Date(now.Year(), now.Month(), now.Day(), hour-1, 0, 0, 0, time.UTC)
		user.Reminder = &at
	} else {
		user.Reminder = nil
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", err
	}

	switch {
	case submission.Reminder == nil && submission.Channel == nil:
		return "Will not remind you or post your standups anywhere else!", nil
	case submission.Reminder == nil:
		return fmt.Sprintf("Will post your standups in <#%s>.", *submission.Channel), nil
	case submission.Channel == nil:
		return fmt.Sprintf("Will remind you daily at %s.", *submission.Reminder), nil
	default:
		return fmt.Sprintf("Will post your standups in <#%s> and remind you daily at %s.",
			*submission.Channel, *submission.Reminder), nil
	}
}

// SendConfigConfirmation pushes the confirmation copy to the dialog's
// response URL without blocking the submission ack.
func (s *Service) SendConfigConfirmation(responseURL, copyText string) {
	err := s.queue.Enqueue(delivery.Job{
		Name: "config-confirmation",
		Run: func(ctx context.Context) error {
			return s.slack.SendResponse(ctx, responseURL, copyText)
		},
	})
	if err != nil {
		logger.Error("enqueue config confirmation failed", "err", err)
	}
}

// HandleBlockActions toggles a task from an intro-message button press
// and re-renders that intro message in place.
func (s *Service) HandleBlockActions(ctx context.Context, payload *model.Interaction) error {
	if len(payload.Actions) == 0 {
		return nil
	}
	action := payload.Actions[0]

	task, standupID, err := parseActionValue(action.Value)
	if err != nil {
		logger.Warn("malformed block action value", "value", action.Value)
		return nil
	}

	switch action.ActionID {
	case "set-task-done":
		if _, err := s.SetTaskDone(ctx, task, standupID); err != nil {
			return err
		}
	case "set-task-not-done":
		if _, err := s.SetTaskNotDone(ctx, task, standupID); err != nil {
			return err
		}
	default:
		return nil
	}

	user, err := s.store.GetUser(ctx, payload.User.ID)
	if err != nil {
		return err
	}
	blocks, err := s.introBlocks(ctx, user)
	if err != nil {
		return err
	}

	if payload.Message == nil {
		return nil
	}
	ts, channel, teamID := payload.Message.TS, payload.Channel.ID, payload.Team.ID
	qerr := s.queue.Enqueue(delivery.Job{
		Name: "refresh-intro",
		Run: func(ctx context.Context) error {
			token, err := s.store.BotTokenForTeam(ctx, teamID)
			if err != nil {
				return fmt.Errorf("resolve bot token: %w", err)
			}
			_, err = s.slack.UpdateMessage(ctx, token, channel, ts, slack.Message{Blocks: blocks})
			return err
		},
	})
	if qerr != nil {
		logger.Error("enqueue intro refresh failed", "err", qerr)
	}
	return nil
}

// parseActionValue splits a button value of the form
// "taskIndex-standupID".
func parseActionValue(value string) (task, standupID int, err error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed action value %q", value)
	}
	task, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	standupID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return task, standupID, nil
}

// RemoveToday deletes today's standup, removing the channel echo first
// when one was posted.
func (s *Service) RemoveToday(ctx context.Context, userID, teamID string) (string, error) {
	todays, err := s.store.TodayStandup(ctx, userID)
	if err == store.ErrNotFound {
		return ":warning: Couldn't find your standup for today, so nothing to do here.", nil
	}
	if err != nil {
		return "", err
	}

	if todays.Channel != nil && todays.MessageTS != nil {
		channel, ts := *todays.Channel, *todays.MessageTS
		qerr := s.queue.Enqueue(delivery.Job{
			Name: "delete-echo",
			Run: func(ctx context.Context) error {
				token, err := s.store.BotTokenForTeam(ctx, teamID)
				if err != nil {
					return fmt.Errorf("resolve bot token: %w", err)
				}
				return s.slack.DeleteMessage(ctx, token, channel, ts)
			},
		})
		if qerr != nil {
			logger.Error("enqueue echo delete failed", "err", qerr)
		}
	}

	if err := s.store.DeleteTodayStandup(ctx, userID); err != nil {
		return "", err
	}
	return ":shrug: Just forgot all about today's standup, feel free to try again.", nil
}

// HelpText is the static /progress-help reply.
func (s *Service) HelpText() string {
	return "Hi, I'm the @progress bot and I'm here to help you with your daily standups and task management!" +
		"\n\n:one: *Standups*\n" +
		"You can mention me (@progress) from a channel or send me a private message at any time to start your daily standup. " +
		"If you want to post your standups in a channel or set a daily reminder, run `/progress-config`. " +
		"Create multiple tasks with Slack's multiline messages, by using _shift+enter_.\n" +
		"If you got something wrong you can either edit the messages you sent me or type `/progress-forget` which will delete your standup for the day and allow you to try again." +
		"\n\n:two: *Tasks*\n" +
		"Check what you have in store for the day, after completing your standup, by typing `/td` (`/progress-today`). " +
		"From here, you can mark tasks as completed with `/d task_id` (`/progress-done`) or undo them with `/ud` (`/progress-undo`)." +
		"\n\nEnjoy! :pray:"
}
