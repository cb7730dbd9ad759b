// Package userctx resolves the current user from the secure store. The user
// record is saved at login; when only the auth token survives, the identity is
// recovered from the token's claims without verifying the signature. The
// engine is not the party that validates tokens, it only needs the ids.
package userctx

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/securestore"
)

const (
	userKey  = "current_user"
	tokenKey = "auth_token"
)

// User identifies the logged-in account.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Resolver looks the current user up in a secure store.
type Resolver struct {
	store securestore.Store
}

// NewResolver returns a resolver over the given store.
func NewResolver(store securestore.Store) *Resolver {
	return &Resolver{store: store}
}

// Current returns the logged-in user. The saved user record wins; when it is
// absent the auth token's subject claim is decoded instead. No user at all
// yields ErrNoCurrentUser.
func (r *Resolver) Current() (User, error) {
	if raw, ok, err := r.store.Get(userKey); err != nil {
		return User{}, err
	} else if ok {
		var u User
		if json.Unmarshal([]byte(raw), &u) == nil && u.ID != "" {
			return u, nil
		}
	}

	token, ok, err := r.store.Get(tokenKey)
	if err != nil {
		return User{}, err
	}
	if !ok || token == "" {
		return User{}, errs.ErrNoCurrentUser
	}
	u, err := userFromToken(token)
	if err != nil {
		return User{}, fmt.Errorf("%w: %s", errs.ErrNoCurrentUser, err)
	}
	return u, nil
}

// CurrentID returns just the user id, for data isolation on backend calls.
func (r *Resolver) CurrentID() (string, error) {
	u, err := r.Current()
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Save persists the user record for later lookups.
func (r *Resolver) Save(u User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Set(userKey, string(b))
}

// Clear removes the stored user and token on logout.
func (r *Resolver) Clear() error {
	if err := r.store.Delete(userKey); err != nil {
		return err
	}
	return r.store.Delete(tokenKey)
}

// userFromToken decodes the subject claim of the auth token. The backend puts
// the whole user object in sub; the signature is deliberately not checked.
func userFromToken(token string) (User, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return User{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, fmt.Errorf("unexpected claims type")
	}
	sub, ok := claims["sub"].(map[string]any)
	if !ok {
		return User{}, fmt.Errorf("token has no subject object")
	}

	u := User{
		ID:       claimString(sub["id"]),
		Name:     claimString(sub["nome"]),
		Username: claimString(sub["username"]),
		Email:    claimString(sub["email"]),
	}
	if u.ID == "" {
		return User{}, fmt.Errorf("token subject has no user id")
	}
	return u, nil
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
