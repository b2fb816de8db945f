// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and account lifecycle layer.

It defines the core domain entity (User) and logic for registration,
confirmation, password and federated login, and password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// Authentication methods supported by the platform.
const (
	AuthMethodPassword = "password"
	AuthMethodGitHub   = "github"
	AuthMethodGoogle   = "google"
)

// User represents a registered member of the LinkBridge platform.
//
// Document-shaped sub-objects (ProfilePic, Design, SEOMetadata) are stored
// as JSONB columns so the whole profile reads and writes as one aggregate.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`

	ProfilePic  ProfilePic  `json:"profilePic"`
	Design      Design      `json:"design"`
	SEOMetadata SEOMetadata `json:"seoMetadata"`

	AuthMethod string `json:"authMethod"`

	// Credentials and confirmation state. Explicitly omitted from JSON for security.
	PasswordHash        string `json:"-"`
	IsConfirmed         bool   `json:"-"`
	ConfirmationToken   string `json:"-"`
	ResetPasswordToken  string `json:"-"`
	ProviderAccessToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFederated reports whether the account was created through a social provider.
func (user *User) IsFederated() bool {
	return user.AuthMethod != AuthMethodPassword
}

// ProfilePic identifies an uploaded image: the public URL plus the asset ID
// needed to delete it from the Asset Gateway.
type ProfilePic struct {
	URL     string `json:"url"`
	AssetID string `json:"assetId"`
}

// IsSet reports whether an image is currently attached.
func (pic ProfilePic) IsSet() bool {
	return pic.URL != "" || pic.AssetID != ""
}

// Background holds a custom page background: a solid color, an uploaded
// image, or both.
type Background struct {
	Color string     `json:"color"`
	Image ProfilePic `json:"image"`
}

// ButtonStyle controls the appearance of link buttons on the public page.
type ButtonStyle struct {
	Radius    string `json:"radius"`
	Type      string `json:"type"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

// FontStyle controls the typography of the public page.
type FontStyle struct {
	Family string `json:"family"`
	Color  string `json:"color"`
}

// Design aggregates all visual customization of a user's Linktree page.
//
// # Invariant
//
// Theme and Background are mutually exclusive: setting one clears the other.
type Design struct {
	Theme          string      `json:"theme"`
	Background     Background  `json:"background"`
	ButtonStyle    ButtonStyle `json:"buttonStyle"`
	FontStyle      FontStyle   `json:"fontStyle"`
	SocialPosition string      `json:"socialPosition"`
}

// SEOMetadata holds the meta tags rendered on the public page.
type SEOMetadata struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// DefaultDesign returns the design applied to every new account.
func DefaultDesign() Design {
	return Design{
		Theme: DefaultTheme,
		ButtonStyle: ButtonStyle{
			Radius:    "rounded-full",
			Type:      "fill",
			BgColor:   "#222",
			TextColor: "#f8f8f8",
		},
		FontStyle: FontStyle{
			Family: "font-satoshi-medium",
			Color:  "#222",
		},
		SocialPosition: SocialPositionTop,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldName        = "name"
	FieldBio         = "bio"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldAuthMethod  = "authMethod"
	FieldAccessToken = "providerAccessToken"
	FieldUserID      = "userId"
	FieldToken       = "token"
	FieldType        = "type"
	FieldNewPassword = "newPassword"
	FieldOldPassword = "oldPassword"
	FieldMessage     = "message"
	FieldUser        = "user"
)
