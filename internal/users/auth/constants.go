// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the fixed lifetime of a signed session token.
	SessionTokenTTL = 7 * 24 * time.Hour

	// OpaqueTokenLength is the byte length of confirmation and reset tokens.
	// 60 random bytes hex-encode to a 120-character token.
	OpaqueTokenLength = 60
)

// # Profile Defaults

const (
	// DefaultBio is the placeholder shown until the user writes their own.
	DefaultBio = "🚀 Bio"

	// DefaultTheme is the named preset applied to new accounts.
	DefaultTheme = "default"

	// Social icon placement options on the public page.
	SocialPositionTop    = "top"
	SocialPositionBottom = "bottom"
)
