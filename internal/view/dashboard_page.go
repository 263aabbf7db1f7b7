package view

import (
	"context"
	"sort"
	"sync"

	"go-debate-client/internal/api"
	"go-debate-client/internal/model"
)

// DashboardPage shows the viewer's matches and queue entries. Queue entries
// carry best-effort debate titles; a failed title lookup degrades to the id.
type DashboardPage struct {
	matches  *api.MatchesClient
	debates  *api.DebatesClient
	renderer *Renderer

	Life Lifetime

	mu     sync.Mutex
	mine   []model.Match
	queue  []QueueItem
	loaded bool
}

func NewDashboardPage(matches *api.MatchesClient, debates *api.DebatesClient, renderer *Renderer) *DashboardPage {
	return &DashboardPage{matches: matches, debates: debates, renderer: renderer}
}

func (p *DashboardPage) Load(ctx context.Context) error {
	mine, err := p.matches.Mine(ctx)
	if err != nil {
		return err
	}

	entries, err := p.debates.MyQueue(ctx)
	if err != nil {
		return err
	}

	queue := make([]QueueItem, 0, len(entries))
	for _, entry := range entries {
		item := QueueItem{Entry: entry}
		if debate, err := p.debates.Get(ctx, entry.DebateID); err == nil {
			item.Title = debate.Title
		}
		queue = append(queue, item)
	}

	if !p.Life.Alive() {
		return nil
	}

	p.mu.Lock()
	p.mine = mine
	p.queue = queue
	p.loaded = true
	p.mu.Unlock()

	return nil
}

// split orders matches by phase, newest first within a phase, and separates
// the still-running ones from the closed ones.
func (p *DashboardPage) split() (active []model.Match, closed []model.Match) {
	p.mu.Lock()
	mine := make([]model.Match, len(p.mine))
	copy(mine, p.mine)
	p.mu.Unlock()

	sort.SliceStable(mine, func(i, j int) bool {
		if mine[i].Phase != mine[j].Phase {
			return mine[i].Phase < mine[j].Phase
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	for _, m := range mine {
		if m.Phase == model.PhaseClosed {
			closed = append(closed, m)
		} else {
			active = append(active, m)
		}
	}

	return active, closed
}

func (p *DashboardPage) Render() {
	p.mu.Lock()
	loaded := p.loaded
	queue := p.queue
	p.mu.Unlock()

	if !loaded {
		p.renderer.Message("Dashboard not loaded.")
		return
	}

	active, closed := p.split()
	p.renderer.Dashboard(active, closed, queue)
}
