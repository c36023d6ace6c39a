package usecases

import (
	"strings"

	"papelariabot/internal/entities"
)

// AccessFilter decides whether an inbound message may be processed at all.
// Group chats and blocked senders are rejected before anything else runs;
// a rejected sender never receives any outbound message.
type AccessFilter struct {
	blocked []string
}

// NewAccessFilter builds a filter from the configured block rules.
// Rules are either full sender IDs or "@suffix" patterns (e.g. "@g.us").
func NewAccessFilter(blocked []string) *AccessFilter {
	return &AccessFilter{blocked: blocked}
}

// Accepts reports whether msg may proceed to classification.
func (f *AccessFilter) Accepts(msg entities.InboundMessage) bool {
	if msg.IsGroup {
		return false
	}
	return !f.Blocked(msg.SenderID)
}

// Blocked reports whether senderID matches any block rule.
func (f *AccessFilter) Blocked(senderID string) bool {
	for _, rule := range f.blocked {
		if rule == "" {
			continue
		}
		if senderID == rule {
			return true
		}
		if strings.HasPrefix(rule, "@") && strings.HasSuffix(senderID, rule) {
			return true
		}
	}
	return false
}
