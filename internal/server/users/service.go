package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/server/auth"
	"github.com/anikulin/linkstash/internal/server/config"
)

// Identity is a verified third-party account as reported by an
// IdentityVerifier.
type Identity struct {
	Email     string
	Name      string
	Thumbnail string
}

// IdentityVerifier checks an identity provider's signed token and returns
// the account it attests. Verification is an external collaborator; the
// services here never inspect provider tokens themselves.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type Service struct {
	repo                        Repository
	verifier                    IdentityVerifier
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewService builds the account service. verifier may be nil, in which
// case identity-provider logins are rejected as unauthorized.
func NewService(repo Repository, verifier IdentityVerifier, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		verifier:                    verifier,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a local account with a bcrypt-hashed password. A
// duplicate email surfaces as common.ErrStorage from the unique
// constraint.
func (s *Service) Register(ctx context.Context, email, name, password, thumbnail string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &User{Email: email, Name: name, Thumbnail: thumbnail}
	cred := &Credential{Email: email, PasswordHash: hash}

	return s.repo.CreateWithCredential(ctx, user, cred)
}

// Login verifies the password and returns a fresh access token. Unknown
// emails and wrong passwords both fail with common.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	cred, err := s.repo.GetCredential(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	return s.issueToken(email)
}

// LoginWithIDToken verifies a third-party identity token, provisions the
// account on first login, and returns the user plus a fresh access token.
func (s *Service) LoginWithIDToken(ctx context.Context, idToken string) (*User, string, error) {
	if s.verifier == nil {
		return nil, "", common.ErrUnauthorized
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, "", fmt.Errorf("verifying identity token: %w", common.ErrUnauthorized)
	}

	user, err := s.repo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInternal
		}
		user = &User{Email: identity.Email, Name: identity.Name, Thumbnail: identity.Thumbnail}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, "", common.ErrInternal
		}
	}

	token, err := s.issueToken(user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(email string) (string, error) {
	token, err := auth.GenerateToken(email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}
