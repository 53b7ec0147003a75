package store

import (
	"context"
	"sync"
	"time"

	"progress-bot/internal/model"
)

// Memory keeps everything in process. It exists for tests and for
// running the bot without a database; one mutex guards each collection
// and is only held for the read-modify-write, never across I/O.
type Memory struct {
	usersMu sync.Mutex
	users   []model.User
	userID  int

	standupsMu sync.Mutex
	standups   []model.Standup
	standupID  int

	teamsMu sync.Mutex
	teams   []model.Team
	teamID  int
}

func NewMemory() *Memory { return &Memory{} }

func copyUser(u model.User) *model.User {
	c := u
	return &c
}

func copyStandup(s model.Standup) *model.Standup {
	c := s
	c.Done = append(c.Done[:0:0], s.Done...)
	return &c
}

func (s *Memory) GetUser(_ context.Context, username string) (*model.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateUser(_ context.Context, user *model.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	s.userID++
	user.ID = s.userID
	s.users = append(s.users, *user)
	return nil
}

func (s *Memory) UpdateUser(_ context.Context, user *model.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) TodayStandup(_ context.Context, username string) (*model.Standup, error) {
	today := model.Today()
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	for _, st := range s.standups {
		if st.Username == username && st.Date.Equal(today) {
			return copyStandup(st), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) LatestStandup(_ context.Context, username string) (*model.Standup, error) {
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	var latest *model.Standup
	for i, st := range s.standups {
		if st.Username != username {
			continue
		}
		if latest == nil || st.Date.After(latest.Date) {
			latest = &s.standups[i]
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return copyStandup(*latest), nil
}

func (s *Memory) StandupBefore(_ context.Context, username string, date time.Time) (*model.Standup, error) {
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	var latest *model.Standup
	for i, st := range s.standups {
		if st.Username != username || !st.Date.Before(date) {
			continue
		}
		if latest == nil || st.Date.After(latest.Date) {
			latest = &s.standups[i]
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return copyStandup(*latest), nil
}

func (s *Memory) StandupByID(_ context.Context, id int) (*model.Standup, error) {
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	for _, st := range s.standups {
		if st.ID == id {
			return copyStandup(st), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateStandup(_ context.Context, standup *model.Standup) error {
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	s.standupID++
	standup.ID = s.standupID
	s.standups = append(s.standups, *copyStandup(*standup))
	return nil
}

func (s *Memory) UpdateStandup(_ context.Context, standup *model.Standup) error {
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	for i, st := range s.standups {
		if st.ID == standup.ID {
			s.standups[i] = *copyStandup(*standup)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) DeleteTodayStandup(_ context.Context, username string) error {
	today := model.Today()
	s.standupsMu.Lock()
	defer s.standupsMu.Unlock()
	kept := s.standups[:0]
	for _, st := range s.standups {
		if st.Username == username && st.Date.Equal(today) {
			continue
		}
		kept = append(kept, st)
	}
	s.standups = kept
	return nil
}

func (s *Memory) BotTokenForTeam(_ context.Context, teamID string) (string, error) {
	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()
	for _, t := range s.teams {
		if t.TeamID == teamID {
			return t.BotAccessToken, nil
		}
	}
	return "", ErrNotFound
}

func (s *Memory) UpsertTeam(_ context.Context, team *model.Team) error {
	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()
	for i, t := range s.teams {
		if t.TeamID == team.TeamID {
			team.ID = t.ID
			s.teams[i] = *team
			return nil
		}
	}
	s.teamID++
	team.ID = s.teamID
	s.teams = append(s.teams, *team)
	return nil
}

func (s *Memory) UsersDueReminder(_ context.Context, now time.Time) ([]model.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	var due []model.User
	for _, u := range s.users {
		if u.Reminder == nil || u.Reminder.Hour() != now.UTC().Hour() {
			continue
		}
		if u.LastNotified != nil && sameDay(*u.LastNotified, now) {
			continue
		}
		due = append(due, u)
	}
	return due, nil
}

func (s *Memory) MarkNotified(_ context.Context, userID int, at time.Time) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	for i := range s.users {
		if s.users[i].ID == userID {
			t := at
			s.users[i].LastNotified = &t
			return nil
		}
	}
	return ErrNotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
