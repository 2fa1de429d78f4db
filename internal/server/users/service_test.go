package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/server/auth"
	"github.com/anikulin/linkstash/internal/server/config"
)

type fakeVerifier struct {
	identity *Identity
	err      error
}

func (v *fakeVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	return v.identity, v.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	cfg := testConfig()
	s := NewService(NewMemoryRepository(), nil, cfg)

	require.NoError(t, s.Register(context.Background(), "ann@example.com", "Ann", "s3cret", ""))

	token, err := s.Login(context.Background(), "ann@example.com", "s3cret")
	require.NoError(t, err)

	email, err := auth.EmailFromToken(token, []byte(cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewService(NewMemoryRepository(), nil, testConfig())

	require.NoError(t, s.Register(context.Background(), "ann@example.com", "Ann", "s3cret", ""))
	err := s.Register(context.Background(), "ann@example.com", "Ann", "other", "")
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestLoginWrongPassword(t *testing.T) {
	s := NewService(NewMemoryRepository(), nil, testConfig())

	require.NoError(t, s.Register(context.Background(), "ann@example.com", "Ann", "s3cret", ""))

	_, err := s.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	s := NewService(NewMemoryRepository(), nil, testConfig())

	_, err := s.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginWithIDTokenProvisionsAccount(t *testing.T) {
	repo := NewMemoryRepository()
	verifier := &fakeVerifier{identity: &Identity{
		Email:     "ann@example.com",
		Name:      "Ann",
		Thumbnail: "https://img.example.com/ann.png",
	}}
	cfg := testConfig()
	s := NewService(repo, verifier, cfg)

	user, token, err := s.LoginWithIDToken(context.Background(), "provider-token")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)

	email, err := auth.EmailFromToken(token, []byte(cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)

	// Second login reuses the stored account rather than recreating it.
	again, _, err := s.LoginWithIDToken(context.Background(), "provider-token")
	require.NoError(t, err)
	assert.Equal(t, user.Email, again.Email)
}

func TestLoginWithIDTokenRejectedByVerifier(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("token expired")}
	s := NewService(NewMemoryRepository(), verifier, testConfig())

	_, _, err := s.LoginWithIDToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginWithIDTokenWithoutVerifier(t *testing.T) {
	s := NewService(NewMemoryRepository(), nil, testConfig())

	_, _, err := s.LoginWithIDToken(context.Background(), "anything")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
