// Package matchview derives the UI-facing state of a match from the fetched
// record and the current viewer. Everything here is a pure function: phase or
// participation mismatches are computed states, never errors, and nothing is
// inferred beyond what the server put in the payload.
package matchview

import "go-debate-client/internal/model"

// Viewer is the possibly-absent identity a view is rendered for.
type Viewer struct {
	Authenticated bool
	Identity      model.Identity
}

func Guest() Viewer {
	return Viewer{}
}

func ViewerOf(id model.Identity) Viewer {
	return Viewer{Authenticated: true, Identity: id}
}

type Participation struct {
	IsParticipant bool
	Side          model.Side
}

func ParticipationOf(m model.Match, viewer Viewer) Participation {
	if !viewer.Authenticated {
		return Participation{Side: model.SideNone}
	}

	switch viewer.Identity.UserID {
	case m.ProUserID:
		return Participation{IsParticipant: true, Side: model.SidePro}
	case m.ControUserID:
		return Participation{IsParticipant: true, Side: model.SideContro}
	default:
		return Participation{Side: model.SideNone}
	}
}

// EditableRound reports which round the viewer may write for right now: the
// round matching the current phase, and only for participants. Voting and
// Closed phases (and unknown ones) expose no editor.
func EditableRound(m model.Match, viewer Viewer) (model.Round, bool) {
	if !ParticipationOf(m, viewer).IsParticipant {
		return 0, false
	}

	for _, round := range []model.Round{model.RoundOpening, model.RoundRebuttal} {
		if round.Phase() == m.Phase {
			return round, true
		}
	}

	return 0, false
}

// PairSide is one column of a round's side-by-side view.
type PairSide struct {
	Present bool
	Body    string
}

// PairView is a round's two-column rendering state. Texts are revealed only
// when both sides have a submission in the fetched record; a lone submission
// stays hidden even if the server included its body, mirroring the server's
// reveal rule instead of second-guessing it.
type PairView struct {
	Round    model.Round
	Revealed bool
	Pro      PairSide
	Contro   PairSide
}

func PairViewFor(m model.Match, round model.Round) PairView {
	view := PairView{Round: round}

	for _, sub := range m.SubmissionsFor(round) {
		switch sub.UserID {
		case m.ProUserID:
			view.Pro = PairSide{Present: true, Body: sub.Body}
		case m.ControUserID:
			view.Contro = PairSide{Present: true, Body: sub.Body}
		}
	}

	view.Revealed = view.Pro.Present && view.Contro.Present
	if !view.Revealed {
		view.Pro.Body = ""
		view.Contro.Body = ""
	}

	return view
}

// VotingStatus is the single reason voting controls are shown or withheld.
// The disabled reasons are mutually exclusive, resolved in priority order:
// phase, then authentication, then participation.
type VotingStatus int

const (
	VotingEnabled VotingStatus = iota
	VotingWrongPhase
	VotingNotAuthenticated
	VotingParticipant
)

func (s VotingStatus) Label() string {
	switch s {
	case VotingEnabled:
		return "enabled"
	case VotingWrongPhase:
		return "disabled: wrong phase"
	case VotingNotAuthenticated:
		return "disabled: not authenticated"
	case VotingParticipant:
		return "disabled: participant"
	default:
		return "disabled"
	}
}

func VotingEligibilityOf(m model.Match, viewer Viewer) VotingStatus {
	if m.Phase != model.PhaseVoting {
		return VotingWrongPhase
	}
	if !viewer.Authenticated {
		return VotingNotAuthenticated
	}
	if ParticipationOf(m, viewer).IsParticipant {
		return VotingParticipant
	}

	return VotingEnabled
}

// Outcome is the display transform of the server's final-state fields. It is
// decided only once the match is Closed and never computed client-side.
type Outcome struct {
	Decided    bool
	IsDraw     bool
	WinnerName string
}

func OutcomeOf(m model.Match) Outcome {
	if m.Phase != model.PhaseClosed {
		return Outcome{}
	}
	if m.IsDraw {
		return Outcome{Decided: true, IsDraw: true}
	}

	name := m.WinnerUsername
	if name == "" {
		name = m.WinnerUserID
	}

	return Outcome{Decided: true, WinnerName: name}
}
