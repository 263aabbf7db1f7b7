package view

import (
	"context"
	"sync"

	"go-debate-client/internal/api"
	"go-debate-client/internal/matchview"
	"go-debate-client/internal/model"
	"go-debate-client/pkg/apierror"
)

// DebatePage drives the debate detail screen with its join controls. Queue
// membership is reconciled against the fetched queue list; the only local
// projection is the documented optimistic patch after a join (or a 409
// telling us the join already happened).
type DebatePage struct {
	debates  *api.DebatesClient
	session  Session
	renderer *Renderer

	Life Lifetime
	join Action

	mu     sync.Mutex
	debate model.Debate
	queue  []model.QueueEntry
	loaded bool
}

func NewDebatePage(debates *api.DebatesClient, session Session, renderer *Renderer) *DebatePage {
	return &DebatePage{debates: debates, session: session, renderer: renderer}
}

func (p *DebatePage) authenticated() bool {
	_, ok := p.session.Identity()
	return ok
}

// Load fetches the debate and, for authenticated viewers, the queue list.
// The two fetches are independent; the queue result is only consulted for
// join-state classification.
func (p *DebatePage) Load(ctx context.Context, debateID string) error {
	debate, err := p.debates.Get(ctx, debateID)
	if err != nil {
		return err
	}

	var queue []model.QueueEntry
	if p.authenticated() {
		queue, err = p.debates.MyQueue(ctx)
		if err != nil {
			return err
		}
	}

	if !p.Life.Alive() {
		return nil
	}

	p.mu.Lock()
	p.debate = debate
	p.queue = queue
	p.loaded = true
	p.mu.Unlock()

	return nil
}

// State classifies the viewer against this debate's queue.
func (p *DebatePage) State() matchview.QueueState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return matchview.ClassifyQueue(p.authenticated(), p.queue, p.debate.ID)
}

// Join enqueues the viewer on a side. On success the local queue list is
// patched optimistically instead of re-fetched; a 409 means the server
// already knows us as queued, so the same patch applies and the error is
// reported as information, not failure.
func (p *DebatePage) Join(ctx context.Context, side model.Side) error {
	if !p.join.Begin() {
		return nil
	}
	defer p.join.End()

	state := p.State()
	if !state.CanJoin() {
		p.renderer.Message("Joining is not available: " + state.Label() + ".")
		return nil
	}

	p.mu.Lock()
	debateID := p.debate.ID
	p.mu.Unlock()

	err := p.debates.Join(ctx, debateID, side)
	if err != nil && !apierror.IsKind(err, apierror.KindConflict) {
		return err
	}

	p.patchQueue(debateID, side)

	if err != nil {
		p.renderer.Message("You are already queued (or matched) for this debate.")
	} else {
		p.renderer.Message("Queued. You will be matched as soon as an opponent joins.")
	}

	return nil
}

func (p *DebatePage) patchQueue(debateID string, side model.Side) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.queue {
		if entry.DebateID == debateID {
			return
		}
	}

	p.queue = append([]model.QueueEntry{{DebateID: debateID, Side: side}}, p.queue...)
}

func (p *DebatePage) Render() {
	p.mu.Lock()
	debate, loaded := p.debate, p.loaded
	p.mu.Unlock()

	if !loaded {
		p.renderer.Message("Debate not loaded.")
		return
	}

	p.renderer.DebateDetail(debate, p.State())
}
