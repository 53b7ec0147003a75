package service

import (
	"context"
	"fmt"
	"time"

	"progress-bot/internal/logger"
	"progress-bot/internal/slack"
)

// NotifyDueUsers DMs every user whose reminder hour matches now and who
// hasn't been pinged today, stamping last_notified as it goes. Run from
// the reminders binary on a cron schedule; sends are synchronous there.
func (s *Service) NotifyDueUsers(ctx context.Context, now time.Time) error {
	users, err := s.store.UsersDueReminder(ctx, now)
	if err != nil {
		return err
	}

	for _, user := range users {
		token, err := s.store.BotTokenForTeam(ctx, user.TeamID)
		if err != nil {
			logger.Error("reminder token lookup failed", "user", user.Username, "err", err)
			continue
		}

		msg := slack.Message{
			Text: fmt.Sprintf("Hey <@%s>, is this a good time for your standup today? :)", user.Username),
		}
		if _, err := s.slack.SendMessage(ctx, token, user.Username, msg); err != nil {
			logger.Error("reminder send failed", "user", user.Username, "err", err)
			continue
		}

		if err := s.store.MarkNotified(ctx, user.ID, now); err != nil {
			return fmt.Errorf("mark %s notified: %w", user.Username, err)
		}
		logger.Info("reminder sent", "user", user.Username)
	}
	return nil
}
