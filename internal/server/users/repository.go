package users

import "context"

// Repository persists users and their credentials. Both collections are
// unique on email; violating inserts fail with common.ErrStorage.
type Repository interface {
	// CreateWithCredential inserts a user row and its credential row
	// together.
	CreateWithCredential(ctx context.Context, user *User, cred *Credential) error

	// Create inserts a user without a credential (identity-provider
	// accounts).
	Create(ctx context.Context, user *User) error

	// GetByEmail fails with common.ErrNotFound when the user is absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetCredential fails with common.ErrNotFound when no credential is
	// stored for email.
	GetCredential(ctx context.Context, email string) (*Credential, error)
}
