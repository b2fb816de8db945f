// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	stdctx "context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/internal/platform/constants"
	"github.com/taibuivan/linkbridge/internal/users/auth"
	"github.com/taibuivan/linkbridge/pkg/pointer"
)

// Object-storage folders for account media.
const (
	avatarFolder     = "avatars"
	backgroundFolder = "backgrounds"
)

// Service implements account reads and every typed update variant.
type Service struct {
	accountRepository AccountRepository
	linkReader        LinkReader
	storage           assets.Gateway
	passwords         PasswordChanger
	profileCache      ProfileCache
	logger            *slog.Logger
}

/*
NewService wires the account service.

Parameters:
  - accountRepository: Persistence for the user aggregate.
  - linkReader: Source of the owner's link document for public profiles.
  - storage: Object storage for avatars and background images.
  - passwords: Credential rotation, implemented by the auth package.
  - profileCache: Public-profile cache, invalidated on every mutation.
  - logger: Structured logger for account events.

Returns:
  - *Service: The ready-to-use service.
*/
func NewService(
	accountRepository AccountRepository,
	linkReader LinkReader,
	storage assets.Gateway,
	passwords PasswordChanger,
	profileCache ProfileCache,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepository,
		linkReader:        linkReader,
		storage:           storage,
		passwords:         passwords,
		profileCache:      profileCache,
		logger:            logger,
	}
}

// # Reads

/*
GetAccount loads the full account for its owner. The handler has already
matched the path user ID against the session subject.

Parameters:
  - context: Request context.
  - userID: The account owner's ID.

Returns:
  - *auth.User: The account.
  - error: [apperr.AppError] with 404 when the account does not exist.
*/
func (service *Service) GetAccount(context stdctx.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
GetPublicProfile assembles the unauthenticated view of a Linktree page.

Cache hits are served directly. On a miss the profile is built from the user
row plus the owner's link document and cached for a short TTL; a user without
any links yet is served with a nil link document.

Parameters:
  - context: Request context.
  - username: The page's username as it appears in the URL.

Returns:
  - *PublicProfile: The page data visitors render.
  - error: [apperr.AppError] with 404 when no such username exists.
*/
func (service *Service) GetPublicProfile(context stdctx.Context, username string) (*PublicProfile, error) {
	if cached, err := service.profileCache.Get(context, username); err == nil && cached != nil {
		return cached, nil
	}

	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFoundMsg("User not found")
		}
		return nil, fmt.Errorf("account_service_public_profile_failed: %w", err)
	}

	document, err := service.linkReader.FindByCreator(context, user.ID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("account_service_public_profile_links_failed: %w", err)
	}

	profile := &PublicProfile{
		UserID:      user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Bio:         user.Bio,
		ProfilePic:  user.ProfilePic,
		Design:      user.Design,
		SEOMetadata: user.SEOMetadata,
		Links:       document,
	}

	if err := service.profileCache.Set(context, username, profile, constants.ProfileCacheTTL); err != nil {
		service.logger.Warn("profile cache set failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	return profile, nil
}

// # Profile And Identity Updates

/*
UpdateProfile changes the display name, bio, and avatar in one operation.

A new avatar replaces the old one: the previous object is deleted first and
the new bytes are uploaded before the row is saved. Deleting the old object
is best-effort; an orphaned object costs storage, not correctness.

Parameters:
  - context: Request context.
  - userID: The account owner's ID.
  - input: The new profile values and optional avatar action.

Returns:
  - *auth.User: The updated account.
  - error: Not-found, storage, or persistence failures.
*/
func (service *Service) UpdateProfile(context stdctx.Context, userID string, input ProfileUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	user.Name = input.Name
	user.Bio = input.Bio

	switch {
	case input.Avatar != nil:
		service.deleteAssetQuietly(context, user.ProfilePic.AssetID, "avatar")
		uploaded, err := service.storage.Upload(context, avatarFolder,
			input.Avatar.Filename, input.Avatar.ContentType, input.Avatar.Data)
		if err != nil {
			return nil, fmt.Errorf("account_service_avatar_upload_failed: %w", err)
		}
		user.ProfilePic = auth.ProfilePic{URL: uploaded.URL, AssetID: uploaded.AssetID}
	case input.RemoveAvatar:
		service.deleteAssetQuietly(context, user.ProfilePic.AssetID, "avatar")
		user.ProfilePic = auth.ProfilePic{}
	}

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

/*
UpdateSEO replaces the page's search-engine title and description.
*/
func (service *Service) UpdateSEO(context stdctx.Context, userID string, input SEOUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_seo_failed: %w", err)
	}

	user.SEOMetadata = auth.SEOMetadata{
		Title: input.Title,
		Desc:  input.Description,
	}

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateUsername renames the account's public handle.

The new username must be free. Both the old and new cache entries are
invalidated so the page is immediately reachable under its new URL.

Parameters:
  - context: Request context.
  - userID: The account owner's ID.
  - username: The already-validated new username.

Returns:
  - *auth.User: The updated account.
  - error: [apperr.AppError] with 409 when the username is taken.
*/
func (service *Service) UpdateUsername(context stdctx.Context, userID string, username string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_username_failed: %w", err)
	}

	existing, err := service.accountRepository.FindByUsername(context, username)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("account_service_username_lookup_failed: %w", err)
	}
	if existing != nil && existing.ID != user.ID {
		return nil, apperr.Conflict("Username is already taken")
	}

	previous := user.Username
	user.Username = username

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_username_failed: %w", err)
	}
	service.invalidateQuietly(context, previous, username)

	service.logger.Info("username_changed",
		slog.String("user_id", userID),
		slog.String("username", username),
	)
	return user, nil
}

/*
ChangePassword rotates the account password after verifying the current one.
The rules live in the auth package; this is pure delegation plus the cache
bookkeeping shared by every account mutation.
*/
func (service *Service) ChangePassword(context stdctx.Context, userID string, oldPassword string, newPassword string) error {
	return service.passwords.ChangePassword(context, userID, oldPassword, newPassword)
}

// # Design Updates

/*
UpdateTheme switches the page to a preset theme.

Themes and custom backgrounds are mutually exclusive: applying a theme clears
any stored background and best-effort deletes its image asset.
*/
func (service *Service) UpdateTheme(context stdctx.Context, userID string, input ThemeUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_theme_failed: %w", err)
	}

	service.deleteAssetQuietly(context, user.Design.Background.Image.AssetID, "background")
	user.Design.Theme = input.Theme
	user.Design.Background = auth.Background{}

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateBackground sets a custom background color or image.

Setting a background takes the page off its preset theme. A previously
uploaded background image is best-effort deleted before the replacement is
stored.
*/
func (service *Service) UpdateBackground(context stdctx.Context, userID string, input BackgroundUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_background_failed: %w", err)
	}

	service.deleteAssetQuietly(context, user.Design.Background.Image.AssetID, "background")

	background := auth.Background{Color: input.Color}
	if input.Image != nil {
		uploaded, err := service.storage.Upload(context, backgroundFolder,
			input.Image.Filename, input.Image.ContentType, input.Image.Data)
		if err != nil {
			return nil, fmt.Errorf("account_service_background_upload_failed: %w", err)
		}
		background.Image = auth.ProfilePic{URL: uploaded.URL, AssetID: uploaded.AssetID}
	}

	user.Design.Theme = ""
	user.Design.Background = background

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateButtonStyle shallow-merges the given fields into the current button
style, leaving unset fields untouched.
*/
func (service *Service) UpdateButtonStyle(context stdctx.Context, userID string, input ButtonStyleUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_button_style_failed: %w", err)
	}

	style := &user.Design.ButtonStyle
	style.Radius = pointer.Fallback(input.Radius, style.Radius)
	style.Type = pointer.Fallback(input.Type, style.Type)
	style.BgColor = pointer.Fallback(input.BgColor, style.BgColor)
	style.TextColor = pointer.Fallback(input.TextColor, style.TextColor)

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateFontStyle shallow-merges the given fields into the current font style,
leaving unset fields untouched.
*/
func (service *Service) UpdateFontStyle(context stdctx.Context, userID string, input FontStyleUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_font_style_failed: %w", err)
	}

	style := &user.Design.FontStyle
	style.Family = pointer.Fallback(input.Family, style.Family)
	style.Color = pointer.Fallback(input.Color, style.Color)

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateSocialPosition moves the social-icon row to the top or bottom of the
page. The handler has already validated the position value.
*/
func (service *Service) UpdateSocialPosition(context stdctx.Context, userID string, input SocialPositionUpdate) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_social_position_failed: %w", err)
	}

	user.Design.SocialPosition = input.Position

	if err := service.saveAndInvalidate(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Helpers

// saveAndInvalidate persists the aggregate and drops the cached public
// profile under its current username.
func (service *Service) saveAndInvalidate(context stdctx.Context, user *auth.User) error {
	if err := service.accountRepository.Update(context, user); err != nil {
		return fmt.Errorf("account_service_save_failed: %w", err)
	}
	service.invalidateQuietly(context, user.Username)
	return nil
}

// invalidateQuietly drops cached profiles; a failed invalidation only
// delays freshness until the TTL expires, so it is logged and ignored.
func (service *Service) invalidateQuietly(context stdctx.Context, usernames ...string) {
	if err := service.profileCache.Invalidate(context, usernames...); err != nil {
		service.logger.Warn("profile cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

// deleteAssetQuietly removes a stored object if one exists. Failures are
// logged and ignored: an orphaned object is cheaper than a failed update.
func (service *Service) deleteAssetQuietly(context stdctx.Context, assetID string, kind string) {
	if assetID == "" {
		return
	}
	if err := service.storage.Delete(context, assetID); err != nil {
		service.logger.Warn("asset delete failed",
			slog.String("kind", kind),
			slog.String("asset_id", assetID),
			slog.String("error", err.Error()),
		)
	}
}
