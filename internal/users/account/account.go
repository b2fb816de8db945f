// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages everything a signed-in user can change about their
Linktree page: profile basics, SEO metadata, the username, the password, and
the visual design. It also serves the public read-only profile that visitors
see, backed by a short-lived Redis cache.

Domain:

This package depends on the auth package for the [auth.User] entity. Every
update is a typed variant dispatched exhaustively by the service, so that an
unknown update type is rejected at the edge instead of silently ignored.

Core Responsibilities:

  - Account Reads: Owner-only account lookups and the public profile view.
  - Profile Updates: Name, bio, and avatar (upload, replace, remove).
  - Design Updates: Theme, background, button style, font style, and the
    social-icons position. Picking a theme clears any custom background and
    vice versa.
  - Identity Updates: Username changes with uniqueness enforcement, and
    password changes delegated to the auth package.
  - Cache Invalidation: Public profiles are cached per username; every
    mutation invalidates the affected entries.
*/
package account

import (
	stdctx "context"
	"time"

	"github.com/taibuivan/linkbridge/internal/links"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/internal/users/auth"
)

// # Public Profile

// PublicProfile is the unauthenticated view of a Linktree page: the visual
// identity plus the owner's link document. Sensitive account fields never
// appear here.
type PublicProfile struct {
	UserID      string           `json:"userId"`
	Username    string           `json:"username"`
	Name        string           `json:"name"`
	Bio         string           `json:"bio"`
	ProfilePic  auth.ProfilePic  `json:"profilePic"`
	Design      auth.Design      `json:"design"`
	SEOMetadata auth.SEOMetadata `json:"seoMetadata"`
	Links       *links.Document  `json:"links"`
}

// # Update Variants

// ProfileUpdate changes the display name, bio, and optionally the avatar.
// Avatar and RemoveAvatar are mutually exclusive; the handler enforces that
// before the service runs.
type ProfileUpdate struct {
	Name         string
	Bio          string
	Avatar       *assets.File
	RemoveAvatar bool
}

// SEOUpdate replaces the page's search-engine metadata.
type SEOUpdate struct {
	Title       string
	Description string
}

// ThemeUpdate switches the page to a named preset theme. Any custom
// background is discarded because themes carry their own.
type ThemeUpdate struct {
	Theme string
}

// BackgroundUpdate sets a custom background, either a flat color or an
// uploaded image. Setting a background takes the page off its preset theme.
type BackgroundUpdate struct {
	Color string
	Image *assets.File
}

// ButtonStyleUpdate merges into the current button style. Nil fields keep
// their existing value.
type ButtonStyleUpdate struct {
	Radius    *string
	Type      *string
	BgColor   *string
	TextColor *string
}

// FontStyleUpdate merges into the current font style. Nil fields keep their
// existing value.
type FontStyleUpdate struct {
	Family *string
	Color  *string
}

// SocialPositionUpdate moves the social-icon row to the top or bottom of the
// page.
type SocialPositionUpdate struct {
	Position string
}

// # Contracts

// AccountRepository is the persistence boundary for account mutations. Reads
// return the full [auth.User] aggregate so the service can apply
// read-modify-write updates to the document-shaped columns.
type AccountRepository interface {
	FindByID(context stdctx.Context, userID string) (*auth.User, error)
	FindByUsername(context stdctx.Context, username string) (*auth.User, error)
	Update(context stdctx.Context, user *auth.User) error
}

// LinkReader supplies the owner's link document for the public profile view.
// A nil document (no links yet) is not an error.
type LinkReader interface {
	FindByCreator(context stdctx.Context, creatorID string) (*links.Document, error)
}

// PasswordChanger performs the credential rotation itself; the auth package
// implements it so password rules live in one place.
type PasswordChanger interface {
	ChangePassword(context stdctx.Context, userID string, oldPassword string, newPassword string) error
}

// ProfileCache caches assembled public profiles per username.
type ProfileCache interface {
	Get(context stdctx.Context, username string) (*PublicProfile, error)
	Set(context stdctx.Context, username string, profile *PublicProfile, ttl time.Duration) error
	Invalidate(context stdctx.Context, usernames ...string) error
}
