package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"progress-bot/internal/model"
)

// Gorm is the Postgres-backed store.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{db: db} }

// Migrate creates or updates the three tables.
func (s *Gorm) Migrate() error {
	return s.db.AutoMigrate(&model.User{}, &model.Standup{}, &model.Team{})
}

func (s *Gorm) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (s *Gorm) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Gorm) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *Gorm) TodayStandup(ctx context.Context, username string) (*model.Standup, error) {
	var st model.Standup
	err := s.db.WithContext(ctx).
		Where("username = ? AND date = ?", username, model.Today()).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query today standup: %w", err)
	}
	return &st, nil
}

func (s *Gorm) LatestStandup(ctx context.Context, username string) (*model.Standup, error) {
	var st model.Standup
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("date DESC").
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest standup: %w", err)
	}
	return &st, nil
}

func (s *Gorm) StandupBefore(ctx context.Context, username string, date time.Time) (*model.Standup, error) {
	var st model.Standup
	err := s.db.WithContext(ctx).
		Where("username = ? AND date < ?", username, date).
		Order("date DESC").
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query standup before %s: %w", date.Format("2006-01-02"), err)
	}
	return &st, nil
}

func (s *Gorm) StandupByID(ctx context.Context, id int) (*model.Standup, error) {
	var st model.Standup
	err := s.db.WithContext(ctx).First(&st, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query standup %d: %w", id, err)
	}
	return &st, nil
}

func (s *Gorm) CreateStandup(ctx context.Context, standup *model.Standup) error {
	if err := s.db.WithContext(ctx).Create(standup).Error; err != nil {
		return fmt.Errorf("insert standup: %w", err)
	}
	return nil
}

func (s *Gorm) UpdateStandup(ctx context.Context, standup *model.Standup) error {
	if err := s.db.WithContext(ctx).Save(standup).Error; err != nil {
		return fmt.Errorf("update standup: %w", err)
	}
	return nil
}

func (s *Gorm) DeleteTodayStandup(ctx context.Context, username string) error {
	err := s.db.WithContext(ctx).
		Where("username = ? AND date = ?", username, model.Today()).
		Delete(&model.Standup{}).Error
	if err != nil {
		return fmt.Errorf("delete today standup: %w", err)
	}
	return nil
}

func (s *Gorm) BotTokenForTeam(ctx context.Context, teamID string) (string, error) {
	var team model.Team
	err := s.db.WithContext(ctx).Where("team_id = ?", teamID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query team: %w", err)
	}
	return team.BotAccessToken, nil
}

func (s *Gorm) UpsertTeam(ctx context.Context, team *model.Team) error {
	var existing model.Team
	err := s.db.WithContext(ctx).Where("team_id = ?", team.TeamID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("query team: %w", err)
	}

	team.ID = existing.ID
	if err := s.db.WithContext(ctx).Save(team).Error; err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

// UsersDueReminder picks users whose reminder hour matches now and who
// have not been notified yet today.
func (s *Gorm) UsersDueReminder(ctx context.Context, now time.Time) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("reminder IS NOT NULL").
		Where("extract(hour from reminder) = ?", now.UTC().Hour()).
		Where("last_notified IS NULL OR date_trunc('day', last_notified) != date_trunc('day', now())").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	return users, nil
}

func (s *Gorm) MarkNotified(ctx context.Context, userID int, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_notified", at).Error
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}
