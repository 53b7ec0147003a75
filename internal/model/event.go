package model

// Wire types for the Slack event, slash-command and interactivity
// payloads the boundary receives. Only the fields the bot reads are
// declared.

// EventCallback is the outer envelope posted to the events endpoint. It
// is either a URL-verification challenge or a wrapped event.
type EventCallback struct {
	Token     string        `json:"token"`
	Challenge string        `json:"challenge"`
	TeamID    string        `json:"team_id"`
	Event     *EventDetails `json:"event"`
}

// EventDetails is the inner event. For message_changed events the text
// lives on Message/PreviousMessage rather than on the event itself.
type EventDetails struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Text    string `json:"text"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`

	// BotID set means the message came from a bot (ourselves included);
	// its absence is the best self-message filter available.
	BotID string `json:"bot_id"`

	Message         *MessageRef `json:"message"`
	PreviousMessage *MessageRef `json:"previous_message"`
}

// MessageRef is the old/new message carried by a message_changed event.
type MessageRef struct {
	User string `json:"user"`
	Text string `json:"text"`
	TS   string `json:"ts"`
}

// SlashCommand is the form body Slack posts for slash commands.
type SlashCommand struct {
	Token       string `form:"token"`
	TeamID      string `form:"team_id"`
	UserID      string `form:"user_id"`
	Text        string `form:"text"`
	TriggerID   string `form:"trigger_id"`
	ResponseURL string `form:"response_url"`
}

// InteractionType is the closed set of interactivity payload kinds the
// bot handles, replacing dispatch on raw type strings.
type InteractionType int

const (
	InteractionUnknown InteractionType = iota
	InteractionDialogSubmission
	InteractionBlockActions
)

// ParseInteractionType maps a payload "type" field to the enumeration.
func ParseInteractionType(s string) InteractionType {
	switch s {
	case "dialog_submission":
		return InteractionDialogSubmission
	case "block_actions":
		return InteractionBlockActions
	default:
		return InteractionUnknown
	}
}

// Interaction is the decoded interactivity payload (the form field named
// "payload" on the interactive endpoint).
type Interaction struct {
	Type        string                `json:"type"`
	User        InteractionResource   `json:"user"`
	Team        InteractionResource   `json:"team"`
	Channel     InteractionResource   `json:"channel"`
	Submission  *ConfigSubmission     `json:"submission"`
	Actions     []InteractionAction   `json:"actions"`
	Message     *MessageRef           `json:"message"`
	ResponseURL string                `json:"response_url"`
}

// InteractionResource is a {id, name} pair inside an interaction payload.
type InteractionResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InteractionAction is one pressed button: the intro message buttons
// carry "taskIndex-standupID" in Value.
type InteractionAction struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
}

// ConfigSubmission is what the configuration dialog submits: both fields
// optional, reminder as an hour string ("7".."13").
type ConfigSubmission struct {
	Reminder *string `json:"reminder"`
	Channel  *string `json:"channel"`
}
