// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for account management.
//
// # Architecture
//
// Account updates arrive on two endpoints that dispatch on a query
// parameter: /users/{userId}?updateType= for profile, SEO, username, and
// password changes, and /users/update/linktree-profile?type= for design
// changes. Each variant is decoded into its own typed input so the service
// never sees an untyped bag of fields; an unknown type is a 400, not a
// silent no-op.
package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/internal/platform/middleware"
	requestutil "github.com/taibuivan/linkbridge/internal/platform/request"
	"github.com/taibuivan/linkbridge/internal/platform/respond"
	"github.com/taibuivan/linkbridge/internal/platform/validate"
	"github.com/taibuivan/linkbridge/internal/users/auth"
)

// Values of the updateType query parameter.
const (
	updateTypeProfile        = "profile"
	updateTypeSEO            = "seo"
	updateTypeUsername       = "username"
	updateTypeChangePassword = "changePassword"
)

// Values of the design type query parameter.
const (
	designTypeTheme          = "theme"
	designTypeBackground     = "background"
	designTypeButtonStyle    = "buttonStyle"
	designTypeFontStyle      = "fontStyle"
	designTypeSocialPosition = "socialPosition"
)

// Multipart field names for media-carrying updates.
const (
	fileFieldAvatar     = "profilePic"
	fileFieldBackground = "backgroundImage"
)

// # Definitions & Constructors

// Handler implements the account-management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account endpoints onto the /users router.
//
// # Endpoints
//   - GET   /linktree-profile/{username}    : Public page data, no session.
//   - PATCH /update/linktree-profile?type=  : Design updates for the caller.
//   - GET   /{userId}                       : Owner-only account read.
//   - PATCH /{userId}?updateType=           : Profile, SEO, username, password.
//
// Static segments are registered alongside the {userId} wildcard; chi
// matches them first.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/linktree-profile/{username}", handler.getPublicProfile)
	router.With(middleware.RequireAuth).Patch("/update/linktree-profile", handler.updateDesign)
	router.With(middleware.RequireAuth).Get("/{userId}", handler.getAccount)
	router.With(middleware.RequireAuth).Patch("/{userId}", handler.updateAccount)
}

// # Request Payloads

type profileUpdateRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type seoUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type usernameUpdateRequest struct {
	Username string `json:"username"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type themeUpdateRequest struct {
	Theme string `json:"theme"`
}

type backgroundUpdateRequest struct {
	Color string `json:"color"`
}

type buttonStyleUpdateRequest struct {
	Radius    *string `json:"radius"`
	Type      *string `json:"type"`
	BgColor   *string `json:"bgColor"`
	TextColor *string `json:"textColor"`
}

type fontStyleUpdateRequest struct {
	Family *string `json:"family"`
	Color  *string `json:"color"`
}

type socialPositionUpdateRequest struct {
	SocialPosition string `json:"socialPosition"`
}

// # Reads

/*
GetAccount returns the caller's full account.

GET /users/{userId}

The path ID must match the session subject; any other ID is rejected as
unauthorized rather than revealing whether it exists.

Response:
  - 200: auth.User: The account (auth state stripped by JSON tags)
  - 401: ErrUnauthorized: Session missing or path/session mismatch
  - 404: ErrNotFound: Account row is gone
*/
func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := handler.ownedUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User fetched successfully", user)
}

/*
GetPublicProfile returns the page data visitors render.

GET /users/linktree-profile/{username}

No session is required. The response strips every sensitive account field
and embeds the owner's link document.

Response:
  - 200: PublicProfile
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) getPublicProfile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	validator := &validate.Validator{}
	if err := validator.Required(auth.FieldUsername, username).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetPublicProfile(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile fetched successfully", profile)
}

// # Account Updates

/*
UpdateAccount dispatches an account mutation by its updateType.

PATCH /users/{userId}?updateType={profile|seo|username|changePassword}

The profile variant accepts multipart form data when an avatar is attached,
plain JSON otherwise. All other variants are JSON.

Response:
  - 200: Updated account (message varies per type)
  - 400: ErrBadRequest: Unknown updateType or validation failure
  - 401: ErrUnauthorized: Session missing or path/session mismatch
  - 409: ErrConflict: New username already taken
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := handler.ownedUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch requestutil.Query(request, "updateType") {
	case updateTypeProfile:
		handler.updateProfile(writer, request, userID)
	case updateTypeSEO:
		handler.updateSEO(writer, request, userID)
	case updateTypeUsername:
		handler.updateUsername(writer, request, userID)
	case updateTypeChangePassword:
		handler.changePassword(writer, request, userID)
	default:
		respond.Error(writer, request, apperr.BadRequest("Unknown update type"))
	}
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request, userID string) {
	input := ProfileUpdate{}

	if isMultipart(request) {
		upload, err := requestutil.File(request, fileFieldAvatar)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if upload != nil {
			input.Avatar = &assets.File{
				Filename:    upload.Filename,
				ContentType: upload.ContentType,
				Data:        upload.Data,
			}
		}
		input.Name = requestutil.FormValue(request, "name")
		input.Bio = requestutil.FormValue(request, "bio")
		input.RemoveAvatar = requestutil.FormValue(request, "removeProfilePic") == "true"
	} else {
		var body profileUpdateRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		input.Name = body.Name
		input.Bio = body.Bio
	}

	if input.Avatar != nil && input.RemoveAvatar {
		respond.Error(writer, request, apperr.BadRequest("Cannot upload and remove the avatar at once"))
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		MinLen(auth.FieldName, input.Name, 3).
		MaxLen(auth.FieldName, input.Name, 20)
	validator.Required(auth.FieldBio, input.Bio).
		MaxLen(auth.FieldBio, input.Bio, 200)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile updated successfully", user)
}

func (handler *Handler) updateSEO(writer http.ResponseWriter, request *http.Request, userID string) {
	var body seoUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateSEO(request.Context(), userID, SEOUpdate{
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "SEO metadata updated successfully", user)
}

func (handler *Handler) updateUsername(writer http.ResponseWriter, request *http.Request, userID string) {
	var body usernameUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, body.Username).
		MinLen(auth.FieldUsername, body.Username, 3).
		MaxLen(auth.FieldUsername, body.Username, 30).
		Username(auth.FieldUsername, body.Username)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateUsername(request.Context(), userID, body.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Username updated successfully", user)
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request, userID string) {
	var body changePasswordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldOldPassword, body.OldPassword).
		Required(auth.FieldNewPassword, body.NewPassword).
		MinLen(auth.FieldNewPassword, body.NewPassword, 6)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), userID, body.OldPassword, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password changed successfully", nil)
}

// # Design Updates

/*
UpdateDesign dispatches a design mutation by its type.

PATCH /users/update/linktree-profile?type={theme|background|buttonStyle|fontStyle|socialPosition}

The background variant accepts multipart form data when an image is
attached; every other variant is JSON. The session subject is the target,
no path ID is involved.

Response:
  - 200: Updated account (message varies per type)
  - 400: ErrBadRequest: Unknown type or validation failure
  - 401: ErrUnauthorized: Session missing
*/
func (handler *Handler) updateDesign(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch requestutil.Query(request, "type") {
	case designTypeTheme:
		handler.updateTheme(writer, request, userID)
	case designTypeBackground:
		handler.updateBackground(writer, request, userID)
	case designTypeButtonStyle:
		handler.updateButtonStyle(writer, request, userID)
	case designTypeFontStyle:
		handler.updateFontStyle(writer, request, userID)
	case designTypeSocialPosition:
		handler.updateSocialPosition(writer, request, userID)
	default:
		respond.Error(writer, request, apperr.BadRequest("Unknown design update type"))
	}
}

func (handler *Handler) updateTheme(writer http.ResponseWriter, request *http.Request, userID string) {
	var body themeUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("theme", body.Theme).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateTheme(request.Context(), userID, ThemeUpdate{Theme: body.Theme})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Theme updated successfully", user)
}

func (handler *Handler) updateBackground(writer http.ResponseWriter, request *http.Request, userID string) {
	input := BackgroundUpdate{}

	if isMultipart(request) {
		upload, err := requestutil.File(request, fileFieldBackground)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if upload != nil {
			input.Image = &assets.File{
				Filename:    upload.Filename,
				ContentType: upload.ContentType,
				Data:        upload.Data,
			}
		}
		input.Color = requestutil.FormValue(request, "color")
	} else {
		var body backgroundUpdateRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		input.Color = body.Color
	}

	if input.Color == "" && input.Image == nil {
		respond.Error(writer, request, apperr.BadRequest("Background needs a color or an image"))
		return
	}

	user, err := handler.accountService.UpdateBackground(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Background updated successfully", user)
}

func (handler *Handler) updateButtonStyle(writer http.ResponseWriter, request *http.Request, userID string) {
	var body buttonStyleUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateButtonStyle(request.Context(), userID, ButtonStyleUpdate{
		Radius:    body.Radius,
		Type:      body.Type,
		BgColor:   body.BgColor,
		TextColor: body.TextColor,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Button style updated successfully", user)
}

func (handler *Handler) updateFontStyle(writer http.ResponseWriter, request *http.Request, userID string) {
	var body fontStyleUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateFontStyle(request.Context(), userID, FontStyleUpdate{
		Family: body.Family,
		Color:  body.Color,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Font style updated successfully", user)
}

func (handler *Handler) updateSocialPosition(writer http.ResponseWriter, request *http.Request, userID string) {
	var body socialPositionUpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("socialPosition", body.SocialPosition).
		OneOf("socialPosition", body.SocialPosition, auth.SocialPositionTop, auth.SocialPositionBottom)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSocialPosition(request.Context(), userID, SocialPositionUpdate{
		Position: body.SocialPosition,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Social position updated successfully", user)
}

// # Helpers

// ownedUserID resolves the session subject and enforces that the {userId}
// path parameter refers to the caller. The mismatch answer is deliberately
// 401, not 403, so probing other IDs looks identical to a missing session.
func (handler *Handler) ownedUserID(request *http.Request) (string, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", err
	}

	if pathID := requestutil.Param(request, "userId"); pathID != userID {
		return "", apperr.Unauthorized("You are not authorized to access this account")
	}

	return userID, nil
}

// isMultipart reports whether the request carries multipart form data.
func isMultipart(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data")
}
