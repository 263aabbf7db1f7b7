package view

import (
	"context"
	"fmt"
	"sync"

	"go-debate-client/internal/api"
	"go-debate-client/internal/matchview"
	"go-debate-client/internal/model"
)

// Session is the slice of the session store the pages read.
type Session interface {
	Identity() (model.Identity, bool)
}

// MatchPage drives the match detail screen: one required match fetch, a
// best-effort debate title fetch, and the write/vote actions, each re-fetching
// the match after the mutating call settles.
type MatchPage struct {
	matches     *api.MatchesClient
	debates     *api.DebatesClient
	submissions *api.SubmissionsClient
	votes       *api.VotesClient
	session     Session
	renderer    *Renderer

	Life  Lifetime
	vote  Action
	write Action

	mu      sync.Mutex
	matchID string
	match   model.Match
	title   string
	loaded  bool
}

func NewMatchPage(matches *api.MatchesClient, debates *api.DebatesClient, submissions *api.SubmissionsClient, votes *api.VotesClient, session Session, renderer *Renderer) *MatchPage {
	return &MatchPage{
		matches:     matches,
		debates:     debates,
		submissions: submissions,
		votes:       votes,
		session:     session,
		renderer:    renderer,
	}
}

// Load fetches the match and then, best-effort, its debate's title. A failed
// title fetch does not block the page; the debate id is shown instead. A
// result arriving after the page was left is discarded.
func (p *MatchPage) Load(ctx context.Context, matchID string) error {
	match, err := p.matches.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if !p.Life.Alive() {
		return nil
	}

	title := ""
	if match.DebateID != "" {
		if debate, err := p.debates.Get(ctx, match.DebateID); err == nil {
			title = debate.Title
		}
	}
	if !p.Life.Alive() {
		return nil
	}

	p.mu.Lock()
	p.matchID = matchID
	p.match = match
	p.title = title
	p.loaded = true
	p.mu.Unlock()

	return nil
}

func (p *MatchPage) Match() (model.Match, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.match, p.loaded
}

func (p *MatchPage) viewer() matchview.Viewer {
	if id, ok := p.session.Identity(); ok {
		return matchview.ViewerOf(id)
	}

	return matchview.Guest()
}

// Vote casts a vote and re-fetches the match once the cast has settled. The
// busy flag swallows a second trigger while the first is in flight.
func (p *MatchPage) Vote(ctx context.Context, value model.Side) error {
	if !p.vote.Begin() {
		return nil
	}
	defer p.vote.End()

	p.mu.Lock()
	match, loaded := p.match, p.loaded
	p.mu.Unlock()
	if !loaded {
		return fmt.Errorf("%w: no match loaded", model.ErrInvalidInput)
	}

	if status := matchview.VotingEligibilityOf(match, p.viewer()); status != matchview.VotingEnabled {
		p.renderer.Message("Voting is " + status.Label() + ".")
		return nil
	}

	if err := p.votes.Cast(ctx, match.ID, value); err != nil {
		return err
	}

	p.renderer.Message("Vote recorded.")
	return p.Load(ctx, match.ID)
}

// SaveDraft stores the caller's draft for the currently editable round.
func (p *MatchPage) SaveDraft(ctx context.Context, body string) error {
	return p.writeSubmission(ctx, body, false)
}

// SubmitFinal finalizes the round's text and re-fetches the match, since the
// server may have advanced the phase.
func (p *MatchPage) SubmitFinal(ctx context.Context, body string) error {
	return p.writeSubmission(ctx, body, true)
}

func (p *MatchPage) writeSubmission(ctx context.Context, body string, final bool) error {
	if !p.write.Begin() {
		return nil
	}
	defer p.write.End()

	p.mu.Lock()
	match, loaded := p.match, p.loaded
	p.mu.Unlock()
	if !loaded {
		return fmt.Errorf("%w: no match loaded", model.ErrInvalidInput)
	}

	round, ok := matchview.EditableRound(match, p.viewer())
	if !ok {
		p.renderer.Message("Nothing to write right now: no round is open for you.")
		return nil
	}

	if final {
		if err := p.submissions.Submit(ctx, match.ID, round, body); err != nil {
			return err
		}
		p.renderer.Message(round.Label() + " submitted.")
		return p.Load(ctx, match.ID)
	}

	if err := p.submissions.SaveDraft(ctx, match.ID, round, body); err != nil {
		return err
	}
	p.renderer.Message(round.Label() + " draft saved.")

	return nil
}

func (p *MatchPage) Render() {
	p.mu.Lock()
	match, title, loaded := p.match, p.title, p.loaded
	p.mu.Unlock()

	if !loaded {
		p.renderer.Message("Match not loaded.")
		return
	}

	p.renderer.MatchDetail(match, title, p.viewer())
}
