// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the account lifecycle.
//
// # Architecture
//
// The handler acts as a thin mediation layer between the web and domain services:
//   - Protocol: Standard RESTful JSON interface.
//   - Security: Session token issuance on login paths.
//   - Verification: Enforces strict input validation before passing to [Service].
//
// This layer is strictly responsible for transport concerns (status codes, headers, JSON).
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/linkbridge/internal/platform/request"
	"github.com/taibuivan/linkbridge/internal/platform/respond"
	"github.com/taibuivan/linkbridge/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the lifecycle-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Confirmation, Password Reset). Profile and design updates live in the
// account package.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes attaches the lifecycle endpoints onto the /users router.
//
// # Endpoints
//   - POST  /register          : Creates a new account.
//   - POST  /login             : Authenticates and returns a session token.
//   - POST  /login-with-social : Federated login via GitHub or Google.
//   - GET   /confirm-account   : Confirms an account from the emailed link.
//   - PATCH /reset-password    : Three-mode password recovery flow.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/login-with-social", handler.loginWithSocial)
	router.Get("/confirm-account", handler.confirmAccount)
	router.Patch("/reset-password", handler.resetPassword)
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	Name                string `json:"name"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	AuthMethod          string `json:"authMethod"`
	ProviderAccessToken string `json:"providerAccessToken"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	UserID      string `json:"userId"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

/*
Register handles the creation of a new user account.

POST /users/register

Description: Validates input, checks for identity conflicts, persists the
new profile, and dispatches the confirmation email.

Request:
  - Body: registerRequest (Name, Username, Email, Password)

Response:
  - 201: User: Created user profile (auth state stripped)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 20).
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 30).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "User registered successfully. Please check your email to confirm your account.", user)
}

/*
Login authenticates a user and issues a session token.

POST /users/login

Description: Accepts either username or email, verifies credentials, and
returns the stripped user plus a signed session token.

Request:
  - Body: loginRequest (Username or Email, Password)

Response:
  - 200: Session: Token and user profile
  - 401: ErrUnauthorized: Wrong password
  - 403: ErrForbidden: Account not confirmed
  - 404: ErrNotFound: No matching password account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// The frontend sends whichever identifier the member typed
	identifier := input.Username
	if identifier == "" {
		identifier = input.Email
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, identifier).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), identifier, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", map[string]any{
		FieldUser:  session.User,
		FieldToken: session.Token,
	})
}

/*
LoginWithSocial authenticates via a GitHub or Google access token.

POST /users/login-with-social

Description: Verifies the provider token, creates a confirmed account on
first visit, and issues a session token either way.

Request:
  - Body: socialLoginRequest (Name, Username, Email, Password, AuthMethod, ProviderAccessToken)

Response:
  - 200: Session: Token and user profile
  - 400: ErrBadRequest: Provider rejected the token or unsupported provider
*/
func (handler *Handler) loginWithSocial(writer http.ResponseWriter, request *http.Request) {
	var input socialLoginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldAuthMethod, input.AuthMethod).
		OneOf(FieldAuthMethod, input.AuthMethod, AuthMethodGitHub, AuthMethodGoogle).
		Required(FieldAccessToken, input.ProviderAccessToken)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.LoginWithSocial(request.Context(), SocialLoginInput{
		Name:                input.Name,
		Username:            input.Username,
		Email:               input.Email,
		Password:            input.Password,
		AuthMethod:          input.AuthMethod,
		ProviderAccessToken: input.ProviderAccessToken,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", map[string]any{
		FieldUser:  session.User,
		FieldToken: session.Token,
	})
}

/*
ConfirmAccount activates an account from the emailed link.

GET /users/confirm-account?userId=..&token=..

Response:
  - 200: Success: Account confirmed
  - 400: ErrBadRequest: Unknown user or already confirmed
*/
func (handler *Handler) confirmAccount(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Query(request, FieldUserID)
	token := requestutil.Query(request, FieldToken)

	validator := &validate.Validator{}
	validator.Required(FieldUserID, userID).
		Required(FieldToken, token)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ConfirmAccount(request.Context(), userID, token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account confirmed successfully", map[string]bool{
		"confirmed": true,
	})
}

// Reset flow modes, selected by the ?type= query parameter.
const (
	resetModeValidate = "validateLink"
	resetModeReset    = "reset"
	resetModeChange   = "change"
)

/*
ResetPassword drives the three-mode password recovery flow.

PATCH /users/reset-password?type={validateLink|reset|change}

Description: "reset" emails a tokenized link, "validateLink" checks a link
without mutating anything, "change" consumes the token and stores the new
password.

Request:
  - Body: resetPasswordRequest (fields vary by mode)

Response:
  - 200: Success: Mode-specific confirmation
  - 400: ErrBadRequest: Wrong mode, wrong token, or social-login account
  - 401: ErrUnauthorized: Stale validateLink token
  - 404: ErrNotFound: Unknown user or email
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	mode := requestutil.Query(request, FieldType)

	validator := &validate.Validator{}
	validator.Required(FieldType, mode).
		OneOf(FieldType, mode, resetModeValidate, resetModeReset, resetModeChange)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	switch mode {
	case resetModeValidate:
		handler.validateResetLink(writer, request, input)
	case resetModeReset:
		handler.requestReset(writer, request, input)
	case resetModeChange:
		handler.changeViaReset(writer, request, input)
	}
}

// validateResetLink handles type=validateLink.
func (handler *Handler) validateResetLink(writer http.ResponseWriter, request *http.Request, input resetPasswordRequest) {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).
		Required(FieldToken, input.Token)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ValidateResetLink(request.Context(), input.UserID, input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Reset link is valid", map[string]bool{"ok": true})
}

// requestReset handles type=reset.
func (handler *Handler) requestReset(writer http.ResponseWriter, request *http.Request, input resetPasswordRequest) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "A reset link has been sent to your email", nil)
}

// changeViaReset handles type=change.
func (handler *Handler) changeViaReset(writer http.ResponseWriter, request *http.Request, input resetPasswordRequest) {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).
		Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 6)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.CompletePasswordReset(request.Context(), input.UserID, input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password updated successfully", nil)
}
