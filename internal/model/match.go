package model

import "time"

// Match is the server's record of a Pro vs Contro contest. The client holds
// a transient read copy; after any mutating call the match is re-fetched, not
// projected forward locally.
type Match struct {
	ID                  string       `json:"id"`
	DebateID            string       `json:"debateId"`
	ProUserID           string       `json:"proUserId"`
	ControUserID        string       `json:"controUserId"`
	Phase               MatchPhase   `json:"phase"`
	OpeningSubmissions  []Submission `json:"openingSubmissions"`
	RebuttalSubmissions []Submission `json:"rebuttalSubmissions"`
	ProCount            int          `json:"proCount"`
	ControCount         int          `json:"controCount"`
	TotalVotes          int          `json:"totalVotes"`
	WinnerUserID        string       `json:"winnerUserId"`
	WinnerUsername      string       `json:"winnerUsername"`
	IsDraw              bool         `json:"isDraw"`
	VotingEndsAt        *time.Time   `json:"votingEndsAt"`
	ClosedAt            *time.Time   `json:"closedAt"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// SubmissionsFor returns the submissions the server chose to include for a
// round. The reveal rule (both sides final) is enforced server-side; the
// client only reflects what is present.
func (m Match) SubmissionsFor(round Round) []Submission {
	switch round {
	case RoundOpening:
		return m.OpeningSubmissions
	case RoundRebuttal:
		return m.RebuttalSubmissions
	default:
		return nil
	}
}

type Submission struct {
	UserID  string `json:"userId"`
	Body    string `json:"body"`
	Round   Round  `json:"round"`
	IsDraft bool   `json:"isDraft"`
}
