// Package auth exchanges credentials for a bearer token and owns the
// translation of registration field errors into user-facing messages.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/session"
)

// Messages for the known registration failure shapes.
const (
	MsgUsernameTaken = "A user with that username already exists"
	MsgEmailTaken    = "A user with that email already exists"
)

var (
	ErrUsernameTaken = errors.New(MsgUsernameTaken)
	ErrEmailTaken    = errors.New(MsgEmailTaken)
)

// API is the slice of the backend client the gate needs.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	CurrentUser(ctx context.Context) (api.User, error)
}

type Gate struct {
	api     API
	session *session.Session
	log     *zap.Logger
}

func NewGate(a API, s *session.Session, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{api: a, session: s, log: log}
}

// Login exchanges credentials for a token and persists it.
func (g *Gate) Login(ctx context.Context, username, password string) error {
	token, err := g.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := g.session.SetCredentials(ctx, token, username); err != nil {
		return err
	}
	g.log.Info("logged in", zap.String("username", username))
	return nil
}

// Register creates an account and logs the new user in. Known field-error
// shapes from the server become the specific sentinel errors; anything else
// falls back to a concatenation of all field messages.
func (g *Gate) Register(ctx context.Context, req api.RegisterRequest) error {
	token, err := g.api.Register(ctx, req)
	if err != nil {
		return translateRegisterError(err)
	}
	if err := g.session.SetCredentials(ctx, token, req.Username); err != nil {
		return err
	}
	g.log.Info("registered", zap.String("username", req.Username))
	return nil
}

// Logout clears the persisted credentials. Purely local: the backend holds
// no client-visible session state.
func (g *Gate) Logout(ctx context.Context) error {
	return g.session.Clear(ctx)
}

// IsLoggedIn reports whether a token is stored.
func (g *Gate) IsLoggedIn(ctx context.Context) bool {
	return g.session.IsLoggedIn(ctx)
}

// CurrentUser fetches the profile for the stored token.
func (g *Gate) CurrentUser(ctx context.Context) (api.User, error) {
	return g.api.CurrentUser(ctx)
}

func translateRegisterError(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || !apiErr.IsValidation() {
		return fmt.Errorf("register: %w", err)
	}

	if fieldMentions(apiErr.FieldErrors("username"), "exist") {
		return ErrUsernameTaken
	}
	if fieldMentions(apiErr.FieldErrors("email"), "exist") {
		return ErrEmailTaken
	}
	return fmt.Errorf("register: %s", apiErr.Error())
}

func fieldMentions(msgs []string, fragment string) bool {
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m), fragment) {
			return true
		}
	}
	return false
}
