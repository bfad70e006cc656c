// Package auth registers users and checks their passwords against bcrypt hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/fittrack/pkg/core"
)

// ErrUserExists is returned by Register when the name is taken.
var ErrUserExists = errors.New("user already exists")

// Authenticator registers and logs in users over a credentials store.
type Authenticator struct {
	store  core.Credentials
	cost   int
	logger *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithCost sets the bcrypt cost. Values outside bcrypt's range fall back to the default.
func WithCost(cost int) Option {
	return func(a *Authenticator) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			a.cost = cost
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New returns an Authenticator backed by store.
func New(store core.Credentials, opts ...Option) *Authenticator {
	a := &Authenticator{
		store:  store,
		cost:   bcrypt.DefaultCost,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates an account. The password is stored only as a salted hash.
func (a *Authenticator) Register(ctx context.Context, name, password string) error {
	name = strings.TrimSpace(name)
	if err := core.ValidateUsername(name); err != nil {
		return err
	}
	if password == "" {
		return &core.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	_, err := a.store.GetUser(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrUserExists, name)
	case !errors.Is(err, core.ErrNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := a.store.PutUser(ctx, core.User{Name: name, PasswordHash: string(hash)}); err != nil {
		return err
	}
	a.logger.Info("user registered", "user", name)
	return nil
}

// Login returns core.ErrUnauthorized unless name exists and password matches its hash.
// Accounts without a hash never log in.
func (a *Authenticator) Login(ctx context.Context, name, password string) error {
	u, err := a.store.GetUser(ctx, strings.TrimSpace(name))
	if errors.Is(err, core.ErrNotFound) {
		a.logger.Debug("login failed", "user", name, "reason", "unknown user")
		return core.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if u.PasswordHash == "" {
		a.logger.Warn("login refused for account without password hash", "user", name)
		return core.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		a.logger.Debug("login failed", "user", name, "reason", "password mismatch")
		return core.ErrUnauthorized
	}
	return nil
}

// ChangePassword replaces the hash of an existing account after checking the old password.
func (a *Authenticator) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	if err := a.Login(ctx, name, oldPassword); err != nil {
		return err
	}
	if newPassword == "" {
		return &core.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return a.store.PutUser(ctx, core.User{Name: strings.TrimSpace(name), PasswordHash: string(hash)})
}
