// Package service is the seam between inbound Slack events/commands and
// the standup records: it classifies events, drives the per-day
// conversation, reconciles edits and manages the derived task list.
package service

import (
	"context"
	"fmt"

	"progress-bot/internal/delivery"
	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

// Messenger is the outbound Slack surface the orchestrator depends on.
// *slack.Client satisfies it; tests substitute a fake.
type Messenger interface {
	SendMessage(ctx context.Context, token, channel string, msg slack.Message) (slack.MessageAck, error)
	UpdateMessage(ctx context.Context, token, channel, ts string, msg slack.Message) (slack.MessageAck, error)
	DeleteMessage(ctx context.Context, token, channel, ts string) error
	OpenDialog(ctx context.Context, token, triggerID string, dialog map[string]any) error
	SendResponse(ctx context.Context, responseURL, text string) error
	UserProfile(ctx context.Context, token, userID string) (slack.Profile, error)
	OAuthAccess(ctx context.Context, code string) (slack.OAuthResponse, error)
}

// Reply is the copy produced for the user who triggered an event.
type Reply struct {
	Text   string
	Blocks []map[string]any
}

type Service struct {
	store store.Store
	slack Messenger
	queue *delivery.Dispatcher
}

func New(st store.Store, messenger Messenger, queue *delivery.Dispatcher) *Service {
	return &Service{store: st, slack: messenger, queue: queue}
}

// Challenge echoes Slack's URL-verification token.
func (s *Service) Challenge(token string) string { return token }

// BotToken resolves the bot token for a workspace.
func (s *Service) BotToken(ctx context.Context, teamID string) (string, error) {
	return s.store.BotTokenForTeam(ctx, teamID)
}

// resolveUser fetches a user, creating the record on first contact with
// profile details from the directory. A failed directory lookup is not
// fatal; the profile fields just stay empty.
func (s *Service) resolveUser(ctx context.Context, username, teamID string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, username)
	if err == nil {
		return user, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	user = &model.User{Username: username, TeamID: teamID}
	if token, terr := s.store.BotTokenForTeam(ctx, teamID); terr == nil {
		if profile, perr := s.slack.UserProfile(ctx, token, username); perr == nil {
			user.RealName = profile.RealName
			user.AvatarURL = profile.AvatarURL
		} else {
			logger.Warn("user profile lookup failed", "user", username, "err", perr)
		}
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// sendAsync queues a fire-and-forget message so the inbound ack never
// waits on Slack.
func (s *Service) sendAsync(name, teamID, channel string, msg slack.Message) {
	err := s.queue.Enqueue(delivery.Job{
		Name: name,
		Run: func(ctx context.Context) error {
			token, err := s.store.BotTokenForTeam(ctx, teamID)
			if err != nil {
				return fmt.Errorf("resolve bot token: %w", err)
			}
			_, err = s.slack.SendMessage(ctx, token, channel, msg)
			return err
		},
	})
	if err != nil {
		logger.Error("enqueue send failed", "job", name, "err", err)
	}
}

// SendReply delivers a handler reply to a user's DM asynchronously.
func (s *Service) SendReply(teamID, username string, reply *Reply) {
	if reply == nil {
		return
	}
	s.sendAsync("reply", teamID, username, slack.Message{
		Text:   reply.Text,
		Blocks: reply.Blocks,
	})
}
