package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"go-debate-client/internal/model"
)

// The issuer is not consistent about claim naming: depending on its version
// it emits either the short JWT names or the full URI-qualified .NET claim
// types. Each field is resolved by trying a fixed list of candidate keys in
// priority order and taking the first non-empty value. This is an
// external-API compatibility shim, not business logic.
var (
	userIDKeys = []string{
		"nameid",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier",
		"sub",
	}
	usernameKeys = []string{
		"unique_name",
		"name",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name",
		"email",
	}
	emailKeys = []string{
		"email",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
	}
	roleKeys = []string{
		"role",
		"roles",
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
	}
)

// Resolve decodes a bearer token into the identity it carries. The signature
// is not verified: the client is not the audience validator, it only needs
// the claims the server already vouched for by issuing the token. Pure
// function over its input.
func Resolve(token string) (model.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Identity{}, model.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return model.Identity{}, model.ErrInvalidToken
	}

	userID := firstString(claims, userIDKeys)
	if userID == "" {
		return model.Identity{}, model.ErrInvalidToken
	}

	return model.Identity{
		UserID:   userID,
		Username: firstString(claims, usernameKeys),
		Email:    firstString(claims, emailKeys),
		Roles:    roleSet(claims),
		Claims:   claims,
	}, nil
}

func firstString(claims jwt.MapClaims, keys []string) string {
	for _, key := range keys {
		if s, ok := claims[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	return ""
}

// roleSet normalizes the role claim: a single value becomes a one-element
// set, an absent claim an empty (never nil) set.
func roleSet(claims jwt.MapClaims) []string {
	var raw any
	for _, key := range roleKeys {
		if v, ok := claims[key]; ok && v != nil {
			raw = v
			break
		}
	}

	roles := []string{}
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			roles = append(roles, strings.TrimSpace(v))
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				roles = append(roles, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				roles = append(roles, strings.TrimSpace(s))
			}
		}
	}

	return roles
}
