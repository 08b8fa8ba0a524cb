package service

import (
	"testing"
	"time"

	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*model.User // keyed by ID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) ByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *stubUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) Update(user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) Delete(id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubTokenRepo struct {
	tokens []*model.Token
}

func (r *stubTokenRepo) Create(token *model.Token) error {
	copied := *token
	r.tokens = append(r.tokens, &copied)
	return nil
}

func (r *stubTokenRepo) ConsumeToken(token string) (*model.Token, error) {
	now := time.Now()
	for _, t := range r.tokens {
		if t.Token == token && t.UsedAt == nil && t.ExpiresAt.After(now) {
			t.UsedAt = &now
			copied := *t
			return &copied, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (r *stubTokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	kept := r.tokens[:0:0]
	for _, t := range r.tokens {
		if t.UserID != userID || t.Type != tokenType || t.UsedAt != nil {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubTokenRepo) {
	t.Helper()
	users := newStubUserRepo()
	tokens := &stubTokenRepo{}
	email := NewEmailService("", "steady@example.com", "http://localhost:8000", "Steady", true)
	return NewAuthService(users, tokens, email, "test-secret", false, time.Hour, time.Hour), users, tokens
}

const testPassword = "correct horse battery"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	user, err := auth.Register("Person@Example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "person@example.com", user.Email, "email is normalized")
	assert.True(t, user.HasPassword())
	require.NotNil(t, user.EmailVerifiedAt)

	got, err := auth.Login("person@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = auth.Login("person@example.com", "wrong password!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("stranger@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	_, err := auth.Register("person@example.com", testPassword)
	require.NoError(t, err)

	_, err = auth.Register("person@example.com", testPassword)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	_, err := auth.Register("person@example.com", "short")
	assert.Error(t, err)

	_, err = auth.Register("person@example.com", "password12345")
	assert.Error(t, err)
}

func TestAuthService_JWTRoundTrip(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	user, err := auth.Register("person@example.com", testPassword)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])

	// A token signed with another secret must not verify
	other := NewAuthService(newStubUserRepo(), &stubTokenRepo{}, nil, "other-secret", false, time.Hour, time.Hour)
	forged, err := other.GenerateJWT(user)
	require.NoError(t, err)
	_, err = auth.VerifyJWT(forged)
	assert.Error(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	auth, _, tokens := newAuthFixture(t)

	user, err := auth.Register("person@example.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, auth.SendPasswordResetLink("person@example.com"))
	require.Len(t, tokens.tokens, 1)
	resetToken := tokens.tokens[0].Token

	const newPassword = "an even longer passphrase"
	reset, err := auth.ResetPassword(resetToken, newPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, reset.ID)

	_, err = auth.Login("person@example.com", newPassword)
	require.NoError(t, err)
	_, err = auth.Login("person@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Token is single use
	_, err = auth.ResetPassword(resetToken, "yet another passphrase")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_SendPasswordResetLink_UnknownEmailSilent(t *testing.T) {
	auth, _, tokens := newAuthFixture(t)

	// No account, no error, no token: nothing for an enumerator to observe
	require.NoError(t, auth.SendPasswordResetLink("nobody@example.com"))
	assert.Empty(t, tokens.tokens)
}

func TestAuthService_AuthenticateOAuth_UpsertsByEmail(t *testing.T) {
	auth, users, _ := newAuthFixture(t)

	first, err := auth.AuthenticateOAuth("person@example.com", "google")
	require.NoError(t, err)
	assert.False(t, first.HasPassword())
	require.NotNil(t, first.EmailVerifiedAt)

	// Same email through another provider resolves to the same account
	second, err := auth.AuthenticateOAuth("person@example.com", "github")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
}

func TestAuthService_OnIdentityChange(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	type event struct {
		userID   string
		signedIn bool
	}
	var events []event
	unsubscribe := auth.OnIdentityChange(func(userID string, signedIn bool) {
		events = append(events, event{userID, signedIn})
	})

	user, err := auth.Register("person@example.com", testPassword)
	require.NoError(t, err)
	auth.SignOut(user.ID)

	require.Len(t, events, 2)
	assert.Equal(t, event{user.ID, true}, events[0])
	assert.Equal(t, event{user.ID, false}, events[1])

	unsubscribe()
	auth.SignOut(user.ID)
	assert.Len(t, events, 2, "unsubscribed handler no longer fires")
}
