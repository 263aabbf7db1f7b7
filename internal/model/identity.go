package model

// Identity is the user extracted from a decoded bearer token. It is built
// once per token, never mutated, and discarded together with the token.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
	Claims   map[string]any
}

const RoleModerator = "Moderator"

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}

	return false
}

func (i Identity) IsModerator() bool {
	return i.HasRole(RoleModerator)
}
