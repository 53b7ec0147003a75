package model

import (
	"time"

	"github.com/lib/pq"
)

// User is one Slack user known to the bot. Created lazily on first
// interaction, mutated only through config updates, never deleted.
type User struct {
	ID        int        `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex" json:"username"`
	Channel   *string    `json:"channel"`
	Reminder  *time.Time `json:"reminder"`
	RealName  string     `json:"real_name"`
	AvatarURL string     `json:"avatar_url"`
	TeamID    string     `json:"team_id"`

	// LastNotified keeps the reminder sweep from pinging twice in a day.
	LastNotified *time.Time `json:"last_notified"`
}

// Standup is one user's check-in for one UTC calendar day. The three
// free-text fields fill in strictly that order as the conversation
// progresses; each carries the timestamp of the Slack message that
// produced it so later edits can be re-attributed.
type Standup struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"index:idx_standup_user_date" json:"username"`
	Date     time.Time `gorm:"index:idx_standup_user_date" json:"date"`
	PrevDay  *string   `json:"prev_day"`
	Day      *string   `json:"day"`
	Blocker  *string   `json:"blocker"`

	// Where this standup was echoed, if the user has a channel configured.
	MessageTS *string `json:"message_ts"`
	Channel   *string `json:"channel"`

	PrevDayMessageTS *string `json:"prev_day_message_ts"`
	DayMessageTS     *string `json:"day_message_ts"`
	BlockerMessageTS *string `json:"blocker_message_ts"`

	TeamID string `json:"team_id"`

	// Done holds 1-based line indices of completed tasks in Day.
	Done pq.Int64Array `gorm:"type:integer[]" json:"done"`

	// LocalDate is the wall-clock variant of Date, used for display only.
	LocalDate *time.Time `json:"local_date"`
}

// Team holds the OAuth material for one Slack workspace.
type Team struct {
	ID             int    `gorm:"primaryKey" json:"id"`
	AccessToken    string `json:"-"`
	TeamID         string `gorm:"uniqueIndex" json:"team_id"`
	TeamName       string `json:"team_name"`
	BotUserID      string `json:"bot_user_id"`
	BotAccessToken string `json:"-"`
}

func (User) TableName() string    { return "users" }
func (Standup) TableName() string { return "standups" }
func (Team) TableName() string    { return "teams" }

// Today is the UTC calendar day used for "today record" lookups.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// NewStandup returns an empty record for today.
func NewStandup(username, teamID string) *Standup {
	local := time.Now().Local()
	return &Standup{
		Username:  username,
		TeamID:    teamID,
		Date:      Today(),
		LocalDate: &local,
	}
}
