// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package links manages the link collections shown on a Linktree page.

Domain:

Each user owns at most one link [Document] holding two ordered collections:
social links (icon row) and custom links (button list). Entries are addressed
by a stable server-generated ID, so retitling or reordering never breaks
click attribution. Click counts and per-click history live on the entry
itself and survive edits.

Core Responsibilities:

  - Collection CRUD: Add, update, and delete entries in either collection,
    lazily creating the document on first add.
  - Icons: Custom links may carry an uploaded icon; icon storage failures
    never block saving the link itself.
  - Click Tracking: A public endpoint increments an entry's counter and
    appends a timestamped click record.
  - Stats: A flat, owner-only view of every entry with its click data.
*/
package links

import (
	"time"
)

// Collection identifiers as they appear in the docType query parameter.
const (
	CollectionSocial = "socialLinks"
	CollectionCustom = "customLinks"
)

// Click kinds as they appear in the public click endpoint's payload.
const (
	ClickKindSocial = "social"
	ClickKindCustom = "custom"
)

// Folder for custom-link icons in object storage.
const iconAssetFolder = "link-icons"

// Click is a single recorded click on a link entry.
type Click struct {
	ClickedAt time.Time `json:"clickedAt"`
}

// SocialLink is an entry in the icon row. The title doubles as the platform
// name clients use to pick an icon.
type SocialLink struct {
	ID           string  `json:"_id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	ClickCount   int     `json:"clickCount"`
	ClickHistory []Click `json:"clickHistory"`
}

// CustomLink is an entry in the button list, optionally carrying an uploaded
// icon. IconAssetID is the storage key of the icon; it is persisted with the
// entry so a later replacement or removal can delete the old asset.
type CustomLink struct {
	ID           string  `json:"_id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	IconURL      string  `json:"iconUrl"`
	IconAssetID  string  `json:"iconAssetId"`
	ClickCount   int     `json:"clickCount"`
	ClickHistory []Click `json:"clickHistory"`
}

// Document is a user's complete link collection. Creator is the owning
// user's ID and is unique per document.
type Document struct {
	ID          string       `json:"_id"`
	Creator     string       `json:"creator"`
	SocialLinks []SocialLink `json:"socialLinks"`
	CustomLinks []CustomLink `json:"customLinks"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// StatsEntry is one row of the owner's click-statistics view: the entry's
// identity plus which collection it came from.
type StatsEntry struct {
	ID           string  `json:"_id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	LinkType     string  `json:"linkType"`
	ClickCount   int     `json:"clickCount"`
	ClickHistory []Click `json:"clickHistory"`
}

/*
findSocial returns a pointer into the document's social collection for the
entry with the given ID, or nil when absent.
*/
func (document *Document) findSocial(entryID string) *SocialLink {
	for index := range document.SocialLinks {
		if document.SocialLinks[index].ID == entryID {
			return &document.SocialLinks[index]
		}
	}
	return nil
}

/*
findCustom returns a pointer into the document's custom collection for the
entry with the given ID, or nil when absent.
*/
func (document *Document) findCustom(entryID string) *CustomLink {
	for index := range document.CustomLinks {
		if document.CustomLinks[index].ID == entryID {
			return &document.CustomLinks[index]
		}
	}
	return nil
}
