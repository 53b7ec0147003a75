package service

import (
	"context"
	"fmt"
	"time"

	"progress-bot/internal/delivery"
	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/slack"
	"progress-bot/internal/store"
)

const doneForTodayCopy = "You're done for today, off to work you go now! :nerd_face:"

// HandleEvent classifies an inbound event and dispatches it. The reply,
// when there is one, goes back to the returned username's DM. Events
// from bots (ourselves included, best-effort) are dropped.
func (s *Service) HandleEvent(ctx context.Context, evt *model.EventDetails, teamID string) (*Reply, string, error) {
	if evt == nil || evt.BotID != "" {
		return nil, "", nil
	}

	switch evt.Type {
	case "message":
		switch evt.Subtype {
		case "":
			return s.react(ctx, evt, teamID)
		case "message_changed":
			return s.reactEdit(ctx, evt)
		default:
			return nil, "", nil
		}
	case "app_mention":
		return s.reactNotification(ctx, evt, teamID)
	case "app_home_opened":
		return s.reactAppHome(ctx, evt, teamID)
	default:
		return nil, "", nil
	}
}

// react advances (or starts) today's standup with an ordinary message.
func (s *Service) react(ctx context.Context, evt *model.EventDetails, teamID string) (*Reply, string, error) {
	user, err := s.resolveUser(ctx, evt.User, teamID)
	if err != nil {
		return nil, "", err
	}

	todays, err := s.store.TodayStandup(ctx, user.Username)
	if err == store.ErrNotFound {
		blocks, err := s.introBlocks(ctx, user)
		if err != nil {
			return nil, "", err
		}
		return &Reply{Blocks: blocks}, user.Username, nil
	}
	if err != nil {
		return nil, "", err
	}

	if todays.State() == model.StateComplete {
		return &Reply{Text: doneForTodayCopy}, user.Username, nil
	}

	todays.AddContent(evt.Text, evt.TS)
	if err := s.store.UpdateStandup(ctx, todays); err != nil {
		return nil, "", err
	}
	if todays.State() == model.StateComplete && user.Channel != nil {
		s.shareStandup(user, todays.ID)
	}

	return &Reply{Text: todays.Prompt(user.Channel)}, user.Username, nil
}

// reactEdit re-attributes an edited message to the standup field it
// originally produced. Only today's standup can be edited.
func (s *Service) reactEdit(ctx context.Context, evt *model.EventDetails) (*Reply, string, error) {
	if evt.PreviousMessage == nil || evt.Message == nil {
		return nil, "", nil
	}
	username := evt.PreviousMessage.User

	user, err := s.store.GetUser(ctx, username)
	if err == store.ErrNotFound {
		return &Reply{Text: "Very weird error, couldn't find your user, sorry."}, username, nil
	}
	if err != nil {
		return nil, "", err
	}

	todays, err := s.store.TodayStandup(ctx, username)
	if err == store.ErrNotFound {
		return &Reply{Text: ":warning: Sorry but you can only really edit today's standup. (and you haven't created one yet! Ready to do that?)"}, username, nil
	}
	if err != nil {
		return nil, "", err
	}

	if !todays.ApplyEdit(evt.PreviousMessage.TS, evt.Message.Text, evt.Message.TS) {
		return &Reply{Text: ":warning: Sorry but you can only really edit today's standup."}, username, nil
	}

	if err := s.store.UpdateStandup(ctx, todays); err != nil {
		return nil, "", err
	}
	if todays.Channel != nil {
		s.refreshChannelEcho(user, todays.ID)
	}

	return &Reply{Text: ":white_check_mark: Standup updated, thanks!"}, username, nil
}

// reactNotification answers an @mention with the current status, without
// mutating anything.
func (s *Service) reactNotification(ctx context.Context, evt *model.EventDetails, teamID string) (*Reply, string, error) {
	user, err := s.resolveUser(ctx, evt.User, teamID)
	if err != nil {
		return nil, "", err
	}

	todays, err := s.store.TodayStandup(ctx, user.Username)
	if err == store.ErrNotFound {
		return &Reply{Text: "I'm here! Ready for your standup today?"}, user.Username, nil
	}
	if err != nil {
		return nil, "", err
	}

	if todays.State() == model.StateComplete {
		return &Reply{Text: doneForTodayCopy}, user.Username, nil
	}
	return &Reply{Text: todays.Prompt(user.Channel)}, user.Username, nil
}

// reactAppHome greets the user opening the bot's home tab. Stays silent
// when a standup is already underway or a reminder will fire anyway.
func (s *Service) reactAppHome(ctx context.Context, evt *model.EventDetails, teamID string) (*Reply, string, error) {
	user, err := s.resolveUser(ctx, evt.User, teamID)
	if err != nil {
		return nil, "", err
	}

	_, err = s.store.LatestStandup(ctx, user.Username)
	if err == store.ErrNotFound {
		return &Reply{Text: "Hey there and welcome to @progress! Let me know if this is a good time for your standup today.\nIf you want more information about how this works, `/progress-help` is a good place to start."}, user.Username, nil
	}
	if err != nil {
		return nil, "", err
	}

	_, err = s.store.TodayStandup(ctx, user.Username)
	if err == store.ErrNotFound && user.Reminder == nil {
		return &Reply{Text: "Hey there! Is this a good time for your standup today?"}, user.Username, nil
	}
	if err != nil && err != store.ErrNotFound {
		return nil, "", err
	}
	return nil, "", nil
}

// introBlocks starts the day: creates today's (empty) standup when none
// exists and renders the greeting with the most recent prior standup's
// tasks.
func (s *Service) introBlocks(ctx context.Context, user *model.User) ([]map[string]any, error) {
	todays, err := s.store.TodayStandup(ctx, user.Username)
	switch err {
	case store.ErrNotFound:
		latest, lerr := s.store.LatestStandup(ctx, user.Username)
		if lerr != nil && lerr != store.ErrNotFound {
			return nil, lerr
		}
		todays = model.NewStandup(user.Username, user.TeamID)
		if cerr := s.store.CreateStandup(ctx, todays); cerr != nil {
			return nil, cerr
		}
		return slack.IntroBlocks(latest, todays, user.Channel), nil
	case nil:
		latest, lerr := s.store.StandupBefore(ctx, user.Username, todays.Date)
		if lerr != nil && lerr != store.ErrNotFound {
			return nil, lerr
		}
		return slack.IntroBlocks(latest, todays, user.Channel), nil
	default:
		return nil, err
	}
}

// completedLastCopy lists the tasks completed in the standup preceding
// the given date, one check-marked line each.
func (s *Service) completedLastCopy(ctx context.Context, username string, before time.Time) string {
	prev, err := s.store.StandupBefore(ctx, username, before)
	if err != nil {
		return ""
	}
	copyText := ""
	for _, task := range model.TasksFrom(prev) {
		if !task.Done {
			continue
		}
		if copyText != "" {
			copyText += "\n"
		}
		copyText += fmt.Sprintf(":white_check_mark: %s", task.Content)
	}
	return copyText
}

// shareStandup echoes a freshly completed standup to the user's
// configured channel and binds the delivered message back onto the row.
// Delivery is asynchronous and best-effort; the standup itself is
// already committed.
func (s *Service) shareStandup(user *model.User, standupID int) {
	channel := *user.Channel
	owner := *user
	err := s.queue.Enqueue(delivery.Job{
		Name: "share-standup",
		Run: func(ctx context.Context) error {
			standup, err := s.store.StandupByID(ctx, standupID)
			if err != nil {
				return err
			}
			token, err := s.store.BotTokenForTeam(ctx, owner.TeamID)
			if err != nil {
				return fmt.Errorf("resolve bot token: %w", err)
			}

			completed := s.completedLastCopy(ctx, owner.Username, standup.Date)
			ack, err := s.slack.SendMessage(ctx, token, channel, slack.Message{
				Attachments: slack.StandupAttachment(&owner, standup, completed, time.Now().Unix()),
			})
			if err != nil {
				return err
			}

			standup.MessageTS = &ack.TS
			standup.Channel = &ack.Channel
			return s.store.UpdateStandup(ctx, standup)
		},
	})
	if err != nil {
		logger.Error("enqueue share failed", "user", user.Username, "err", err)
	}
}

// refreshChannelEcho re-renders an already shared standup in place after
// an edit or an added task.
func (s *Service) refreshChannelEcho(user *model.User, standupID int) {
	owner := *user
	err := s.queue.Enqueue(delivery.Job{
		Name: "refresh-echo",
		Run: func(ctx context.Context) error {
			standup, err := s.store.StandupByID(ctx, standupID)
			if err != nil {
				return err
			}
			if standup.Channel == nil || standup.MessageTS == nil {
				return nil
			}
			token, err := s.store.BotTokenForTeam(ctx, owner.TeamID)
			if err != nil {
				return fmt.Errorf("resolve bot token: %w", err)
			}

			completed := s.completedLastCopy(ctx, owner.Username, standup.Date)
			ack, err := s.slack.UpdateMessage(ctx, token, *standup.Channel, *standup.MessageTS, slack.Message{
				Attachments: slack.StandupAttachment(&owner, standup, completed, time.Now().Unix()),
			})
			if err != nil {
				return err
			}

			standup.MessageTS = &ack.TS
			return s.store.UpdateStandup(ctx, standup)
		},
	})
	if err != nil {
		logger.Error("enqueue echo refresh failed", "user", user.Username, "err", err)
	}
}
