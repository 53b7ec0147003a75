package model

import (
	"fmt"
	"strings"
)

// State is where a standup conversation currently sits. It is never
// persisted: it is recomputed from which fields are set, so the stored
// record and the machine can't drift apart.
type State int

const (
	StatePrevDay State = iota
	StateToday
	StateBlocker
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePrevDay:
		return "prev_day"
	case StateToday:
		return "today"
	case StateBlocker:
		return "blocker"
	default:
		return "complete"
	}
}

// skipTokens are the ways users say "nothing to report" for the previous
// day. They normalise to an explicit empty value, which is distinct from
// the field being unset.
var skipTokens = map[string]bool{
	"":     true,
	"no":   true,
	"nop":  true,
	"nope": true,
	"-":    true,
	"*":    true,
}

// State derives the conversational state from field presence, in the
// fixed order prev_day, day, blocker.
func (s *Standup) State() State {
	switch {
	case s.PrevDay == nil:
		return StatePrevDay
	case s.Day == nil:
		return StateToday
	case s.Blocker == nil:
		return StateBlocker
	default:
		return StateComplete
	}
}

// AddContent writes content into the field matching the current state and
// stamps that field's paired message timestamp. Once complete the record
// is immutable through this path.
func (s *Standup) AddContent(content, messageTS string) {
	switch s.State() {
	case StatePrevDay:
		text := content
		if skipTokens[strings.ToLower(strings.TrimSpace(content))] {
			text = ""
		}
		s.PrevDay = &text
		s.PrevDayMessageTS = &messageTS
	case StateToday:
		s.Day = &content
		s.DayMessageTS = &messageTS
	case StateBlocker:
		s.Blocker = &content
		s.BlockerMessageTS = &messageTS
	}
}

// ApplyEdit re-attributes an edited message to the field it originally
// produced, matching originalTS against the stored message timestamps in
// the order prev_day, day, blocker. Returns false when no field matches.
func (s *Standup) ApplyEdit(originalTS, newText, newTS string) bool {
	switch {
	case s.PrevDayMessageTS != nil && *s.PrevDayMessageTS == originalTS:
		s.PrevDay = &newText
		s.PrevDayMessageTS = &newTS
	case s.DayMessageTS != nil && *s.DayMessageTS == originalTS:
		s.Day = &newText
		s.DayMessageTS = &newTS
	case s.BlockerMessageTS != nil && *s.BlockerMessageTS == originalTS:
		s.Blocker = &newText
		s.BlockerMessageTS = &newTS
	default:
		return false
	}
	return true
}

// Prompt is the reply copy for the current state. The channel, when
// configured, is mentioned in the completion message.
func (s *Standup) Prompt(channel *string) string {
	switch s.State() {
	case StatePrevDay:
		return ":one: Firstly how did *yesterday* go? In one line, what were you able to achieve?"
	case StateToday:
		return ":two: What are you going to be focusing on *today*?"
	case StateBlocker:
		return ":three: Any blockers impacting your work?"
	default:
		extra := ""
		if channel != nil {
			extra = fmt.Sprintf("Additionally, I've shared the standup notes to <#%s>.", *channel)
		}
		return fmt.Sprintf(":white_check_mark: *All done here!* %s\n\n Thank you, have a great day and talk to you tomorrow.", extra)
	}
}
