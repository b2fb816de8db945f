// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/sec"
	"github.com/taibuivan/linkbridge/internal/users/auth"
)

// # Test Doubles

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFoundMsg("User not found")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFoundMsg("User not found with this email")
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFoundMsg("User not found with this username")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeUserRepository) SetConfirmationToken(_ context.Context, userID, token string) error {
	repo.users[userID].ConfirmationToken = token
	return nil
}

func (repo *fakeUserRepository) MarkConfirmed(_ context.Context, userID string) error {
	repo.users[userID].IsConfirmed = true
	repo.users[userID].ConfirmationToken = ""
	return nil
}

func (repo *fakeUserRepository) SetResetToken(_ context.Context, userID, token string) error {
	repo.users[userID].ResetPasswordToken = token
	return nil
}

func (repo *fakeUserRepository) ResetCredentials(_ context.Context, userID, newHash string) error {
	repo.users[userID].PasswordHash = newHash
	repo.users[userID].ResetPasswordToken = ""
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.users[userID].PasswordHash = newHash
	return nil
}

// fakeTokenProvider returns a predictable session token.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateSessionToken(userID, username, email string, _ time.Duration) (string, error) {
	return "session-" + userID, nil
}

// fakeMailer records sent messages instead of opening SMTP connections.
type fakeMailer struct {
	confirmations []string // recipient addresses
	resets        []string
	lastToken     string
	failNext      bool
}

func (mail *fakeMailer) SendAccountConfirmation(_ context.Context, to, _, _, token string) error {
	if mail.failNext {
		return assert.AnError
	}
	mail.confirmations = append(mail.confirmations, to)
	mail.lastToken = token
	return nil
}

func (mail *fakeMailer) SendPasswordReset(_ context.Context, to, _, _, token string) error {
	if mail.failNext {
		return assert.AnError
	}
	mail.resets = append(mail.resets, to)
	mail.lastToken = token
	return nil
}

// fakeVerifier approves or rejects provider tokens wholesale.
type fakeVerifier struct {
	reject bool
}

func (verifier fakeVerifier) Verify(_ context.Context, provider, _ string) error {
	if verifier.reject {
		return apperr.BadRequest("Social provider rejected the access token")
	}
	return nil
}

// newTestService wires a Service with fresh fakes.
func newTestService() (*auth.Service, *fakeUserRepository, *fakeMailer) {
	repo := newFakeUserRepository()
	mail := &fakeMailer{}
	service := auth.NewService(repo, fakeTokenProvider{}, fakeVerifier{}, mail)
	return service, repo, mail
}

// registerJane enrolls a baseline password account and returns it.
func registerJane(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Jane Doe",
		Username: "jane-doe",
		Email:    "jane@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestService_Register(t *testing.T) {
	service, repo, mail := newTestService()

	user := registerJane(t, service)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, auth.AuthMethodPassword, user.AuthMethod)
	assert.Equal(t, auth.DefaultBio, user.Bio)
	assert.Equal(t, auth.DefaultTheme, user.Design.Theme)
	assert.Equal(t, auth.SocialPositionTop, user.Design.SocialPosition)
	assert.False(t, user.IsConfirmed)

	// The password must never be stored in the clear
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("secret1", user.PasswordHash))

	// A confirmation token was attached after the row existed, then mailed
	stored := repo.users[user.ID]
	require.Len(t, mail.confirmations, 1)
	assert.Equal(t, "jane@x.com", mail.confirmations[0])
	assert.Len(t, mail.lastToken, auth.OpaqueTokenLength*2)

	// Only the digest is stored; the raw token lives in the mail alone
	assert.NotEqual(t, mail.lastToken, stored.ConfirmationToken)
	assert.Equal(t, sec.HashToken(mail.lastToken), stored.ConfirmationToken)
}

func TestService_Register_Conflicts(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		email       string
		wantMessage string
	}{
		{"duplicate_username", "jane-doe", "other@x.com", "Username is already taken"},
		{"duplicate_email", "other-user", "jane@x.com", "Email is already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestService()
			registerJane(t, service)

			_, err := service.Register(context.Background(), auth.RegisterInput{
				Name:     "Other User",
				Username: tt.username,
				Email:    tt.email,
				Password: "secret1",
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
			assert.Equal(t, tt.wantMessage, ae.Message)
		})
	}
}

func TestService_Register_MailFailurePropagates(t *testing.T) {
	repo := newFakeUserRepository()
	mail := &fakeMailer{failNext: true}
	service := auth.NewService(repo, fakeTokenProvider{}, fakeVerifier{}, mail)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Jane Doe",
		Username: "jane-doe",
		Email:    "jane@x.com",
		Password: "secret1",
	})

	require.Error(t, err)
}

// # Login

func TestService_Login(t *testing.T) {
	service, repo, _ := newTestService()
	user := registerJane(t, service)

	// Unconfirmed accounts are blocked
	_, err := service.Login(context.Background(), "jane-doe", "secret1")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)

	require.NoError(t, repo.MarkConfirmed(context.Background(), user.ID))

	// Wrong password after confirmation
	_, err = service.Login(context.Background(), "jane-doe", "wrong-password")
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	// Login works by username and by email
	session, err := service.Login(context.Background(), "jane-doe", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "session-"+user.ID, session.Token)

	session, err = service.Login(context.Background(), "jane@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
}

func TestService_Login_UnknownUser(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), "nobody", "secret1")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestService_Login_FederatedAccountRejected(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.LoginWithSocial(context.Background(), auth.SocialLoginInput{
		Name:                "Jane Doe",
		Username:            "jane-doe",
		Email:               "jane@x.com",
		Password:            "secret1",
		AuthMethod:          auth.AuthMethodGitHub,
		ProviderAccessToken: "gho_token",
	})
	require.NoError(t, err)

	// Password login must not resolve a federated account
	_, err = service.Login(context.Background(), "jane-doe", "secret1")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

// # Social Login

func TestService_LoginWithSocial_CreatesConfirmedAccount(t *testing.T) {
	service, repo, _ := newTestService()

	session, err := service.LoginWithSocial(context.Background(), auth.SocialLoginInput{
		Name:                "Jane Doe",
		Username:            "Jane Doe", // provider display names get slugified
		Email:               "jane@x.com",
		Password:            "secret1",
		AuthMethod:          auth.AuthMethodGoogle,
		ProviderAccessToken: "ya29.token",
	})
	require.NoError(t, err)

	stored := repo.users[session.User.ID]
	assert.Equal(t, "jane-doe", stored.Username)
	assert.Equal(t, auth.AuthMethodGoogle, stored.AuthMethod)
	assert.True(t, stored.IsConfirmed)
	assert.Equal(t, "ya29.token", stored.ProviderAccessToken)
}

func TestService_LoginWithSocial_ExistingAccountLogsIn(t *testing.T) {
	service, repo, _ := newTestService()
	user := registerJane(t, service)

	// Provider verification alone is enough for an existing account
	session, err := service.LoginWithSocial(context.Background(), auth.SocialLoginInput{
		Username:            "jane-doe",
		Email:               "jane@x.com",
		AuthMethod:          auth.AuthMethodGitHub,
		ProviderAccessToken: "gho_token",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	// Only one account exists
	assert.Len(t, repo.users, 1)
}

func TestService_LoginWithSocial_RejectedToken(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo, fakeTokenProvider{}, fakeVerifier{reject: true}, &fakeMailer{})

	_, err := service.LoginWithSocial(context.Background(), auth.SocialLoginInput{
		Username:            "jane-doe",
		Email:               "jane@x.com",
		AuthMethod:          auth.AuthMethodGitHub,
		ProviderAccessToken: "forged",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Empty(t, repo.users)
}

// # Confirmation

func TestService_ConfirmAccount(t *testing.T) {
	service, repo, mail := newTestService()
	user := registerJane(t, service)

	err := service.ConfirmAccount(context.Background(), user.ID, mail.lastToken)
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.True(t, stored.IsConfirmed)
	assert.Empty(t, stored.ConfirmationToken)

	// Second call is rejected, not a no-op
	err = service.ConfirmAccount(context.Background(), user.ID, mail.lastToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "Account is already confirmed", ae.Message)
}

func TestService_ConfirmAccount_UnknownUser(t *testing.T) {
	service, _, _ := newTestService()

	err := service.ConfirmAccount(context.Background(), "missing-id", "any-token")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "User not found", ae.Message)
}

// # Password Recovery

func TestService_PasswordResetFlow(t *testing.T) {
	service, repo, mail := newTestService()
	user := registerJane(t, service)
	require.NoError(t, repo.MarkConfirmed(context.Background(), user.ID))

	// Request a reset link
	require.NoError(t, service.RequestPasswordReset(context.Background(), "jane@x.com"))
	resetToken := mail.lastToken
	require.Len(t, mail.resets, 1)
	assert.Len(t, resetToken, auth.OpaqueTokenLength*2)

	// Wrong token never validates, regardless of password validity
	err := service.ValidateResetLink(context.Background(), user.ID, "wrong-token")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	// The real link validates without mutating anything; the record holds
	// the digest, never the raw token
	require.NoError(t, service.ValidateResetLink(context.Background(), user.ID, resetToken))
	assert.NotEqual(t, resetToken, repo.users[user.ID].ResetPasswordToken)
	assert.Equal(t, sec.HashToken(resetToken), repo.users[user.ID].ResetPasswordToken)

	// Completing with the wrong token fails
	err = service.CompletePasswordReset(context.Background(), user.ID, "wrong-token", "brand-new")
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)

	// Completing with the right token rotates the password and burns the token
	require.NoError(t, service.CompletePasswordReset(context.Background(), user.ID, resetToken, "brand-new"))
	assert.Empty(t, repo.users[user.ID].ResetPasswordToken)

	_, err = service.Login(context.Background(), "jane-doe", "secret1")
	require.Error(t, err)

	_, err = service.Login(context.Background(), "jane-doe", "brand-new")
	require.NoError(t, err)
}

func TestService_RequestPasswordReset_Errors(t *testing.T) {
	service, _, _ := newTestService()

	// Unknown email
	err := service.RequestPasswordReset(context.Background(), "ghost@x.com")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)

	// Federated accounts have no password to reset
	_, err = service.LoginWithSocial(context.Background(), auth.SocialLoginInput{
		Username:            "sam-social",
		Email:               "sam@x.com",
		Password:            "secret1",
		AuthMethod:          auth.AuthMethodGitHub,
		ProviderAccessToken: "gho_token",
	})
	require.NoError(t, err)

	err = service.RequestPasswordReset(context.Background(), "sam@x.com")
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

func TestService_ChangePassword(t *testing.T) {
	service, _, _ := newTestService()
	user := registerJane(t, service)

	// Wrong current password
	err := service.ChangePassword(context.Background(), user.ID, "wrong", "new-secret")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "Current password is incorrect", ae.Message)

	// Correct current password rotates the hash
	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "secret1", "new-secret"))

	_, err = service.Login(context.Background(), "jane-doe", "new-secret")
	// Still unconfirmed, so confirmation gate fires first
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
}
