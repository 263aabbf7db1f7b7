package matchview

import "go-debate-client/internal/model"

// QueueState classifies the viewer's standing toward a debate's queue.
// Exactly one state applies; joining is allowed only when free.
type QueueState int

const (
	QueueGuest QueueState = iota
	QueueFree
	QueueInThisDebate
	QueueInOtherDebate
)

func (s QueueState) CanJoin() bool {
	return s == QueueFree
}

func (s QueueState) Label() string {
	switch s {
	case QueueGuest:
		return "guest"
	case QueueFree:
		return "free"
	case QueueInThisDebate:
		return "in_this_debate"
	case QueueInOtherDebate:
		return "in_other_debate"
	default:
		return "unknown"
	}
}

// ClassifyQueue is a pure function of the auth flag, the fetched queue
// entries and the debate being viewed. Priority: guest, then membership in
// this debate, then membership elsewhere, then free.
func ClassifyQueue(authenticated bool, entries []model.QueueEntry, debateID string) QueueState {
	if !authenticated {
		return QueueGuest
	}

	for _, entry := range entries {
		if entry.DebateID == debateID {
			return QueueInThisDebate
		}
	}

	for _, entry := range entries {
		if entry.DebateID != "" && entry.DebateID != debateID {
			return QueueInOtherDebate
		}
	}

	return QueueFree
}
