package view

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"go-debate-client/internal/matchview"
	"go-debate-client/internal/model"
	"go-debate-client/pkg/apierror"
)

// Renderer writes derived state to the terminal. It holds no logic of its
// own: everything it prints was decided by the view-model or the server.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) DebateList(debates []model.Debate) {
	if len(debates) == 0 {
		fmt.Fprintln(r.w, "No debates yet.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCREATED")
	for _, d := range debates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Status.Label(), d.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func (r *Renderer) DebateDetail(debate model.Debate, state matchview.QueueState) {
	fmt.Fprintf(r.w, "== %s ==\n", debate.Title)
	fmt.Fprintf(r.w, "Status: %s\n\n%s\n\n", debate.Status.Label(), debate.Body)

	switch state {
	case matchview.QueueGuest:
		fmt.Fprintln(r.w, "Log in to join this debate.")
	case matchview.QueueInThisDebate:
		fmt.Fprintln(r.w, "You are queued for this debate. Check your dashboard for a match.")
	case matchview.QueueInOtherDebate:
		fmt.Fprintln(r.w, "You are already queued for another debate.")
	case matchview.QueueFree:
		fmt.Fprintln(r.w, "Join as [1] Pro or [2] Contro.")
	}
}

// QueueItem pairs a queue entry with its best-effort resolved debate title;
// Title falls back to the debate id when the title fetch failed.
type QueueItem struct {
	Entry model.QueueEntry
	Title string
}

func (r *Renderer) Dashboard(active []model.Match, closed []model.Match, queue []QueueItem) {
	fmt.Fprintf(r.w, "== Dashboard ==\n\nQueued (%d)\n", len(queue))
	for _, item := range queue {
		title := item.Title
		if title == "" {
			title = item.Entry.DebateID
		}
		fmt.Fprintf(r.w, "  %s - side %s\n", title, item.Entry.Side.Label())
	}

	fmt.Fprintf(r.w, "\nActive matches (%d)\n", len(active))
	for _, m := range active {
		fmt.Fprintf(r.w, "  %s [%s]\n", m.ID, m.Phase.Label())
	}

	fmt.Fprintf(r.w, "\nClosed matches (%d)\n", len(closed))
	for _, m := range closed {
		fmt.Fprintf(r.w, "  %s [%s]\n", m.ID, m.Phase.Label())
	}
}

func (r *Renderer) MatchDetail(m model.Match, debateTitle string, viewer matchview.Viewer) {
	if debateTitle == "" {
		debateTitle = m.DebateID
	}

	fmt.Fprintf(r.w, "== Match %s ==\n", m.ID)
	fmt.Fprintf(r.w, "Debate: %s\nPhase: %s\nCreated: %s\n", debateTitle, m.Phase.Label(), m.CreatedAt.Format(time.RFC3339))

	participation := matchview.ParticipationOf(m, viewer)
	if participation.IsParticipant {
		fmt.Fprintf(r.w, "You are the %s side.\n", strings.ToUpper(participation.Side.Label()))
	}

	r.pair(matchview.PairViewFor(m, model.RoundOpening))
	r.pair(matchview.PairViewFor(m, model.RoundRebuttal))

	if round, ok := matchview.EditableRound(m, viewer); ok {
		fmt.Fprintf(r.w, "\nYour %s is open for writing: save a draft or submit the final text.\n", strings.ToLower(round.Label()))
	}

	r.votingPanel(m, viewer)
	r.outcome(m)
}

func (r *Renderer) pair(view matchview.PairView) {
	fmt.Fprintf(r.w, "\n-- %s --\n", view.Round.Label())

	sides := []struct {
		name string
		side matchview.PairSide
	}{
		{"PRO", view.Pro},
		{"CONTRO", view.Contro},
	}

	for _, s := range sides {
		if view.Revealed {
			fmt.Fprintf(r.w, "[%s]\n%s\n", s.name, s.side.Body)
			continue
		}
		fmt.Fprintf(r.w, "[%s] waiting...\n", s.name)
	}
}

func (r *Renderer) votingPanel(m model.Match, viewer matchview.Viewer) {
	status := matchview.VotingEligibilityOf(m, viewer)
	if status == matchview.VotingWrongPhase {
		// Outside the voting phase the panel is simply absent, matching the
		// page layouts rather than showing a disabled control everywhere.
		return
	}

	fmt.Fprintln(r.w, "\n-- Voting --")
	fmt.Fprintf(r.w, "Votes: %d (Pro %d / Contro %d)\n", m.TotalVotes, m.ProCount, m.ControCount)

	switch status {
	case matchview.VotingEnabled:
		fmt.Fprintln(r.w, "Cast your vote: [1] Pro or [2] Contro.")
	case matchview.VotingNotAuthenticated:
		fmt.Fprintln(r.w, "Voting disabled: log in to vote.")
	case matchview.VotingParticipant:
		fmt.Fprintln(r.w, "Voting disabled: you cannot vote on your own match.")
	}
}

func (r *Renderer) outcome(m model.Match) {
	outcome := matchview.OutcomeOf(m)
	if !outcome.Decided {
		return
	}

	fmt.Fprintln(r.w, "\n-- Outcome --")
	if outcome.IsDraw {
		fmt.Fprintln(r.w, "Result: draw")
	} else {
		fmt.Fprintf(r.w, "Result: winner = %s\n", outcome.WinnerName)
	}
	fmt.Fprintf(r.w, "Votes: %d (Pro %d / Contro %d)\n", m.TotalVotes, m.ProCount, m.ControCount)
}

func (r *Renderer) Results(matches []model.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(r.w, "No closed matches yet.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tRESULT\tVOTES")
	for _, m := range matches {
		result := "draw"
		if !m.IsDraw {
			outcome := matchview.OutcomeOf(m)
			result = outcome.WinnerName
		}
		fmt.Fprintf(tw, "%s\t%s\t%d (Pro %d / Contro %d)\n", m.ID, result, m.TotalVotes, m.ProCount, m.ControCount)
	}
	_ = tw.Flush()
}

func (r *Renderer) Moderation(debates []model.Debate) {
	if len(debates) == 0 {
		fmt.Fprintln(r.w, "Nothing awaiting moderation.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS")
	for _, d := range debates {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Title, d.Status.Label())
	}
	_ = tw.Flush()
}

func (r *Renderer) Message(message string) {
	fmt.Fprintln(r.w, message)
}

func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, ErrorCopy(err))
}

// ErrorCopy translates the error taxonomy into user-facing wording. Policy
// rejections read as explanations, not failures.
func ErrorCopy(err error) string {
	if err == nil {
		return ""
	}

	switch apierror.KindOf(err) {
	case apierror.KindAuth:
		return "Login failed: check your email and password."
	case apierror.KindSessionExpired:
		return "Your session expired. Please log in again."
	case apierror.KindPermission:
		return "You are not allowed to do that: " + messageOf(err)
	case apierror.KindConflict:
		return messageOf(err)
	case apierror.KindNotFound:
		return "Not found."
	default:
		return "Something went wrong: " + messageOf(err)
	}
}

func messageOf(err error) string {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return err.Error()
}
