// Package guard gates navigation on session presence and role membership.
// Guards never perform network calls; they decide from the session store's
// current state alone.
package guard

import "go-debate-client/internal/model"

// Session is the slice of the session store guards need.
type Session interface {
	Identity() (model.Identity, bool)
}

type Action int

const (
	ActionAllow Action = iota
	ActionRedirectLogin
	ActionRedirectHome
)

// Decision is the verdict for one navigation attempt. ReturnTo carries the
// originally requested location so login can bounce back to it.
type Decision struct {
	Action   Action
	ReturnTo string
}

func allow() Decision {
	return Decision{Action: ActionAllow}
}

type Guard struct {
	session Session
}

func New(session Session) *Guard {
	return &Guard{session: session}
}

// RequireAuth admits any live session; everyone else is sent to login with
// the requested location preserved.
func (g *Guard) RequireAuth(requested string) Decision {
	if _, ok := g.session.Identity(); !ok {
		return Decision{Action: ActionRedirectLogin, ReturnTo: requested}
	}

	return allow()
}

// RequireModerator admits only sessions holding the moderator role. A
// non-moderator session is silently redirected home, no error shown.
func (g *Guard) RequireModerator(requested string) Decision {
	id, ok := g.session.Identity()
	if !ok {
		return Decision{Action: ActionRedirectLogin, ReturnTo: requested}
	}

	if !id.IsModerator() {
		return Decision{Action: ActionRedirectHome, ReturnTo: requested}
	}

	return allow()
}
