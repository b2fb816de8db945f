// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/mailer"
	"github.com/taibuivan/linkbridge/internal/platform/sec"
	"github.com/taibuivan/linkbridge/pkg/slug"
	"github.com/taibuivan/linkbridge/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating session tokens.
type TokenProvider interface {
	// GenerateSessionToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateSessionToken(userID, username, email string, timeToLive time.Duration) (string, error)
}

// Service implements the account lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	providerVerify ProviderVerifier
	mail           mailer.Mailer
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	verifier ProviderVerifier,
	mail mailer.Mailer,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		providerVerify: verifier,
		mail:           mail,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member: checks identity uniqueness, hashes the
password, persists the record, then attaches a confirmation token and emails
the confirmation link. The token is generated only after the user row exists.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (auth state fields are never serialized)
  - err: Conflict naming the colliding field, or storage/mail failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. The Conflict message names the colliding field.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		Name:         input.Name,
		Bio:          DefaultBio,
		Design:       DefaultDesign(),
		AuthMethod:   AuthMethodPassword,
		PasswordHash: hashedPassword,
		IsConfirmed:  false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Generate and attach the confirmation token, then email the link. Only
	// the digest is stored; the raw token exists in the mail alone.
	// Mail delivery failures propagate: an account nobody can confirm is useless.
	token, err := sec.GenerateSecureToken(OpaqueTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_confirmation_token_failed: %w", err)
	}
	if err := service.userRepository.SetConfirmationToken(context, user.ID, sec.HashToken(token)); err != nil {
		return nil, fmt.Errorf("auth_service_confirmation_save_failed: %w", err)
	}
	if err := service.mail.SendAccountConfirmation(context, user.Email, user.Username, user.ID, token); err != nil {
		return nil, fmt.Errorf("auth_service_confirmation_mail_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a session token.

Description: Resolves the identifier as username or email, enforces the
confirmation gate, performs constant-time password comparison, and issues
a signed session token with a fixed expiry.

Parameters:
  - context: context.Context
  - identifier: string (username or email)
  - password: string

Returns:
  - *LoginSession: Transport-ready session token and user
  - err: NotFound, Forbidden, Unauthorized, or internal failures
*/
func (service *Service) Login(context context.Context, identifier string, password string) (*LoginSession, error) {

	// Flexible login: look up by Username or Email
	user, err := service.userRepository.FindByUsername(context, identifier)
	if err != nil {
		user, err = service.userRepository.FindByEmail(context, identifier)
	}
	if err != nil {
		return nil, apperr.NotFoundMsg("User not found")
	}

	// Federated accounts have no password login path
	if user.IsFederated() {
		return nil, apperr.NotFoundMsg("User not found")
	}

	// Unconfirmed accounts are blocked until the email link is used
	if !user.IsConfirmed {
		return nil, apperr.Forbidden("Please confirm your account first")
	}

	// bcrypt comparison is constant-time to prevent timing attacks
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect password")
	}

	return service.issueSession(user)
}

// SocialLoginInput holds the data for a federated login attempt.
type SocialLoginInput struct {
	Name                string
	Username            string
	Email               string
	Password            string
	AuthMethod          string
	ProviderAccessToken string
}

/*
LoginWithSocial authenticates via a GitHub or Google access token.

Description: Verifies the provider token against the provider's identity
endpoint, then either logs in the matching local account or creates a new
confirmed account carrying the provider method.

Parameters:
  - context: context.Context
  - input: SocialLoginInput

Returns:
  - *LoginSession: Session token and user
  - err: BadRequest when the provider rejects the token, or storage failures

An existing account is logged in after provider-token verification alone; the
local record is not re-checked against the social identity.
TODO: require that the provider identity (email) matches the local account
before issuing a session, to close the takeover window.
*/
func (service *Service) LoginWithSocial(context context.Context, input SocialLoginInput) (*LoginSession, error) {

	// Prove the access token is genuine before touching any local state
	if err := service.providerVerify.Verify(context, input.AuthMethod, input.ProviderAccessToken); err != nil {
		return nil, err
	}

	// Returning member: issue a session outright
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		user, err = service.userRepository.FindByEmail(context, input.Email)
	}
	if err == nil {
		return service.issueSession(user)
	}

	// First visit: enroll a confirmed account under the provider method.
	// The client-supplied password is hashed and stored even for federated
	// accounts, mirroring the password flow.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_social_hash_failed: %w", err)
	}

	user = &User{
		ID:                  uuid.New(),
		Username:            slug.From(input.Username),
		Email:               input.Email,
		Name:                input.Name,
		Bio:                 DefaultBio,
		Design:              DefaultDesign(),
		AuthMethod:          input.AuthMethod,
		PasswordHash:        hashedPassword,
		IsConfirmed:         true,
		ProviderAccessToken: input.ProviderAccessToken,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_social_register_failed: %w", err)
	}

	return service.issueSession(user)
}

// issueSession signs a session token for the user.
func (service *Service) issueSession(user *User) (*LoginSession, error) {
	token, err := service.tokenProvider.GenerateSessionToken(user.ID, user.Username, user.Email, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return &LoginSession{Token: token, User: user}, nil
}

// # Account Confirmation

/*
ConfirmAccount flips a registered account to confirmed state.

Description: Resolves the user, rejects double confirmation, then marks the
account confirmed and clears the stored token.

Parameters:
  - context: context.Context
  - userID: string
  - token: string (from the emailed link)

Returns:
  - err: BadRequest when the user is missing or already confirmed

TODO: compare the supplied token's digest against the stored
confirmationToken before confirming; today any token value is accepted for
an unconfirmed account.
*/
func (service *Service) ConfirmAccount(context context.Context, userID string, token string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.BadRequest("User not found")
	}

	// Confirming twice is rejected, not treated as a no-op
	if user.IsConfirmed {
		return apperr.BadRequest("Account is already confirmed")
	}

	if err := service.userRepository.MarkConfirmed(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_confirm_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
ValidateResetLink checks a reset link without mutating anything.

Description: Confirms that the stored digest matches the supplied token, so
the frontend can show the new-password form only for live links.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - err: NotFound for an unknown user, Unauthorized for a stale or wrong token
*/
func (service *Service) ValidateResetLink(context context.Context, userID string, token string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.NotFoundMsg("User not found")
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != sec.HashToken(token) {
		return apperr.Unauthorized("Reset link is invalid or expired")
	}

	return nil
}

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a fresh opaque token, persists its digest on the user
record, and emails the reset link carrying the raw token. Repeated requests
overwrite the previous token.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: NotFound for an unknown email, BadRequest for federated accounts,
    or token/mail failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return apperr.NotFoundMsg("User not found with this email")
	}

	// Federated accounts have no password to reset
	if user.IsFederated() {
		return apperr.BadRequest("This account uses social login")
	}

	token, err := sec.GenerateSecureToken(OpaqueTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.userRepository.SetResetToken(context, user.ID, sec.HashToken(token)); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// Mail failure propagates: the caller must know the link never went out
	if err := service.mail.SendPasswordReset(context, user.Email, user.Username, user.ID, token); err != nil {
		return fmt.Errorf("auth_service_reset_mail_failed: %w", err)
	}

	return nil
}

/*
CompletePasswordReset finishes the forgot-password flow.

Description: Verifies the token, hashes the new password, and atomically
replaces the credentials while clearing the consumed token.

Parameters:
  - context: context.Context
  - userID: string
  - token: string
  - newPassword: string

Returns:
  - err: NotFound for an unknown user, BadRequest for a wrong token,
    or update failures
*/
func (service *Service) CompletePasswordReset(context context.Context, userID string, token string, newPassword string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.NotFoundMsg("User not found")
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != sec.HashToken(token) {
		return apperr.BadRequest("Reset link is invalid or expired")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.ResetCredentials(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	return nil
}

/*
ChangePassword rotates the password for an authenticated user.

Description: Verifies the current password before storing the new hash.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - err: BadRequest when the old password does not match, or update failures
*/
func (service *Service) ChangePassword(context context.Context, userID string, oldPassword string, newPassword string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.NotFoundMsg("User not found")
	}

	// Social-login accounts manage credentials at the provider
	if user.IsFederated() {
		return apperr.BadRequest("This account uses social login")
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.BadRequest("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}
