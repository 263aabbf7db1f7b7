package model

import "fmt"

// The server ships phases, sides and statuses as raw integers. They are
// decoded into these named types at the model boundary; values outside the
// known range are kept as-is and rendered with a generic label.

type MatchPhase int

const (
	PhaseOpening  MatchPhase = 1
	PhaseRebuttal MatchPhase = 2
	PhaseVoting   MatchPhase = 3
	PhaseClosed   MatchPhase = 4
)

func (p MatchPhase) Known() bool {
	return p >= PhaseOpening && p <= PhaseClosed
}

func (p MatchPhase) Label() string {
	switch p {
	case PhaseOpening:
		return "Opening"
	case PhaseRebuttal:
		return "Rebuttal"
	case PhaseVoting:
		return "Voting"
	case PhaseClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Phase %d", int(p))
	}
}

type Side int

const (
	SideNone   Side = 0
	SidePro    Side = 1
	SideContro Side = 2
)

func (s Side) Label() string {
	switch s {
	case SidePro:
		return "Pro"
	case SideContro:
		return "Contro"
	default:
		return fmt.Sprintf("Side %d", int(s))
	}
}

type DebateStatus int

const (
	DebateOpen     DebateStatus = 1
	DebateInReview DebateStatus = 2
	DebateApproved DebateStatus = 3
	DebateRejected DebateStatus = 4
	DebateClosed   DebateStatus = 5
)

func (s DebateStatus) Label() string {
	switch s {
	case DebateOpen:
		return "Open"
	case DebateInReview:
		return "In review"
	case DebateApproved:
		return "Approved"
	case DebateRejected:
		return "Rejected"
	case DebateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Status %d", int(s))
	}
}

// Round identifies a submission round. Rounds share numbering with the match
// phase during which they are written.

type Round int

const (
	RoundOpening  Round = Round(PhaseOpening)
	RoundRebuttal Round = Round(PhaseRebuttal)
)

func (r Round) Label() string {
	switch r {
	case RoundOpening:
		return "Opening"
	case RoundRebuttal:
		return "Rebuttal"
	default:
		return fmt.Sprintf("Round %d", int(r))
	}
}

// Phase returns the match phase in which this round is editable.
func (r Round) Phase() MatchPhase {
	return MatchPhase(r)
}
