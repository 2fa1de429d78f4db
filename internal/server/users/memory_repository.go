package users

import (
	"context"
	"sync"

	"github.com/anikulin/linkstash/internal/common"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// in-memory repository manager.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*User
	creds map[string]*Credential
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]*User),
		creds: make(map[string]*Credential),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return common.ErrStorage
	}
	u := *user
	r.users[user.Email] = &u
	return nil
}

func (r *MemoryRepository) CreateWithCredential(ctx context.Context, user *User, cred *Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return common.ErrStorage
	}
	u := *user
	c := *cred
	r.users[user.Email] = &u
	r.creds[cred.Email] = &c
	return nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (r *MemoryRepository) GetCredential(ctx context.Context, email string) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.creds[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *cred
	return &c, nil
}
