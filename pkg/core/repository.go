package core

import "context"

// Repository defines the contract for storing and retrieving a user's logs.
// Adhering to this interface keeps the service independent of the storage
// layout (mapping-of-users JSON, per-user CSV, or anything else).
type Repository interface {
	// Append adds e at the end of the user's log of the given kind.
	// Entries are never deduplicated.
	Append(ctx context.Context, user string, kind Kind, e Entry) error

	// List returns the user's log in insertion order. Unknown users have an empty log.
	List(ctx context.Context, user string, kind Kind) ([]Entry, error)

	// SaveSummary stores s, replacing any summary the user already has for s.Date.
	SaveSummary(ctx context.Context, user string, s DailySummary) error

	// ListSummaries returns the user's daily summaries in insertion order.
	ListSummaries(ctx context.Context, user string) ([]DailySummary, error)

	// Initialize ensures the underlying storage is ready (directories, git init).
	Initialize(ctx context.Context) error
}

// Credentials stores user accounts.
type Credentials interface {
	// GetUser returns ErrNotFound when no account exists.
	GetUser(ctx context.Context, name string) (User, error)
	PutUser(ctx context.Context, u User) error
}

// Watchable is implemented by repositories that can report changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
