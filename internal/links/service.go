// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package links

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/pkg/uuid"
)

// ProfileInvalidator drops the cached public profile of a user whose link
// document changed. The account package implements it; defining the
// interface here keeps the dependency pointing one way.
type ProfileInvalidator interface {
	InvalidateUser(context stdctx.Context, userID string) error
}

// EntryInput carries the caller-editable fields of a link entry.
type EntryInput struct {
	Title string
	URL   string
	Icon  *assets.File
}

// Service implements the link collection operations.
type Service struct {
	linkRepository LinkRepository
	storage        assets.Gateway
	invalidator    ProfileInvalidator
	logger         *slog.Logger
}

/*
NewService wires the link service.

Parameters:
  - linkRepository: Persistence for link documents.
  - storage: Object storage for custom-link icons.
  - invalidator: Public-profile cache invalidation on mutations.
  - logger: Structured logger for link events.

Returns:
  - *Service: The ready-to-use service.
*/
func NewService(
	linkRepository LinkRepository,
	storage assets.Gateway,
	invalidator ProfileInvalidator,
	logger *slog.Logger,
) *Service {
	return &Service{
		linkRepository: linkRepository,
		storage:        storage,
		invalidator:    invalidator,
		logger:         logger,
	}
}

// # Reads

/*
GetLinks returns the caller's full link document.

Parameters:
  - context: Request context.
  - creatorID: The session subject.

Returns:
  - *Document: The caller's document.
  - error: [apperr.AppError] with 404 when no document exists yet.
*/
func (service *Service) GetLinks(context stdctx.Context, creatorID string) (*Document, error) {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	if err != nil {
		return nil, err
	}
	return document, nil
}

/*
GetStats returns every entry of the caller's document as one flat sequence,
social links first, then custom links, each carrying its click data.

Parameters:
  - context: Request context.
  - creatorID: The session subject.

Returns:
  - []StatsEntry: The concatenated entries in collection order.
  - error: [apperr.AppError] with 404 when no document exists yet.
*/
func (service *Service) GetStats(context stdctx.Context, creatorID string) ([]StatsEntry, error) {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	if err != nil {
		return nil, err
	}

	entries := make([]StatsEntry, 0, len(document.SocialLinks)+len(document.CustomLinks))
	for _, link := range document.SocialLinks {
		entries = append(entries, StatsEntry{
			ID:           link.ID,
			Title:        link.Title,
			URL:          link.URL,
			LinkType:     ClickKindSocial,
			ClickCount:   link.ClickCount,
			ClickHistory: link.ClickHistory,
		})
	}
	for _, link := range document.CustomLinks {
		entries = append(entries, StatsEntry{
			ID:           link.ID,
			Title:        link.Title,
			URL:          link.URL,
			LinkType:     ClickKindCustom,
			ClickCount:   link.ClickCount,
			ClickHistory: link.ClickHistory,
		})
	}

	return entries, nil
}

// # Mutations

/*
AddLink appends a new entry to one of the caller's collections, creating the
document on first use.

An icon only applies to custom links. Icon upload failures are swallowed:
the link is saved with empty icon fields and the failure is logged, because
a missing icon should never cost the user their link.

Parameters:
  - context: Request context.
  - creatorID: The session subject.
  - collection: CollectionSocial or CollectionCustom, already validated.
  - input: Title, URL, and optional icon.

Returns:
  - *Document: The document after the append.
  - error: Persistence failures.
*/
func (service *Service) AddLink(context stdctx.Context, creatorID string, collection string, input EntryInput) (*Document, error) {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	created := false
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("link_service_add_failed: %w", err)
		}
		document = &Document{
			ID:          uuid.New(),
			Creator:     creatorID,
			SocialLinks: []SocialLink{},
			CustomLinks: []CustomLink{},
		}
		created = true
	}

	entryID := uuid.New()
	switch collection {
	case CollectionSocial:
		document.SocialLinks = append(document.SocialLinks, SocialLink{
			ID:           entryID,
			Title:        input.Title,
			URL:          input.URL,
			ClickHistory: []Click{},
		})
	case CollectionCustom:
		link := CustomLink{
			ID:           entryID,
			Title:        input.Title,
			URL:          input.URL,
			ClickHistory: []Click{},
		}
		if uploaded := service.uploadIconQuietly(context, input.Icon); uploaded != nil {
			link.IconURL = uploaded.URL
			link.IconAssetID = uploaded.AssetID
		}
		document.CustomLinks = append(document.CustomLinks, link)
	}

	if created {
		err = service.linkRepository.Create(context, document)
	} else {
		err = service.linkRepository.Save(context, document)
	}
	if err != nil {
		return nil, fmt.Errorf("link_service_add_failed: %w", err)
	}

	service.invalidateQuietly(context, creatorID)
	service.logger.Info("link_added",
		slog.String("creator", creatorID),
		slog.String("collection", collection),
		slog.String("entry_id", entryID),
	)
	return document, nil
}

/*
UpdateLink edits the title, URL, and optionally the icon of an existing
entry, addressed by its stable ID.

Click data is preserved verbatim. A new icon replaces the old one: the
previous icon asset is best-effort deleted before the upload, and an upload
failure degrades to empty icon fields just like AddLink.

Parameters:
  - context: Request context.
  - creatorID: The session subject.
  - entryID: The entry's stable ID.
  - collection: CollectionSocial or CollectionCustom, already validated.
  - input: New title, URL, and optional replacement icon.

Returns:
  - *Document: The document after the edit.
  - error: [apperr.AppError] with 400 when the document or entry is missing.
*/
func (service *Service) UpdateLink(context stdctx.Context, creatorID string, entryID string, collection string, input EntryInput) (*Document, error) {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.BadRequest("Link not found")
		}
		return nil, fmt.Errorf("link_service_update_failed: %w", err)
	}

	switch collection {
	case CollectionSocial:
		link := document.findSocial(entryID)
		if link == nil {
			return nil, apperr.BadRequest("Link not found")
		}
		link.Title = input.Title
		link.URL = input.URL
	case CollectionCustom:
		link := document.findCustom(entryID)
		if link == nil {
			return nil, apperr.BadRequest("Link not found")
		}
		link.Title = input.Title
		link.URL = input.URL
		if input.Icon != nil {
			service.deleteIconQuietly(context, link.IconAssetID)
			link.IconURL = ""
			link.IconAssetID = ""
			if uploaded := service.uploadIconQuietly(context, input.Icon); uploaded != nil {
				link.IconURL = uploaded.URL
				link.IconAssetID = uploaded.AssetID
			}
		}
	}

	if err := service.linkRepository.Save(context, document); err != nil {
		return nil, fmt.Errorf("link_service_update_failed: %w", err)
	}

	service.invalidateQuietly(context, creatorID)
	return document, nil
}

/*
DeleteLink removes an entry from one of the caller's collections.

The entry's icon asset (custom links only) is best-effort deleted first.

Parameters:
  - context: Request context.
  - creatorID: The session subject.
  - entryID: The entry's stable ID.
  - collection: CollectionSocial or CollectionCustom, already validated.

Returns:
  - *Document: The document after the removal.
  - error: [apperr.AppError] with 400 when the document or entry is missing.
*/
func (service *Service) DeleteLink(context stdctx.Context, creatorID string, entryID string, collection string) (*Document, error) {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.BadRequest("Link not found")
		}
		return nil, fmt.Errorf("link_service_delete_failed: %w", err)
	}

	found := false
	switch collection {
	case CollectionSocial:
		for index := range document.SocialLinks {
			if document.SocialLinks[index].ID == entryID {
				document.SocialLinks = append(document.SocialLinks[:index], document.SocialLinks[index+1:]...)
				found = true
				break
			}
		}
	case CollectionCustom:
		for index := range document.CustomLinks {
			if document.CustomLinks[index].ID == entryID {
				service.deleteIconQuietly(context, document.CustomLinks[index].IconAssetID)
				document.CustomLinks = append(document.CustomLinks[:index], document.CustomLinks[index+1:]...)
				found = true
				break
			}
		}
	}
	if !found {
		return nil, apperr.BadRequest("Link not found")
	}

	if err := service.linkRepository.Save(context, document); err != nil {
		return nil, fmt.Errorf("link_service_delete_failed: %w", err)
	}

	service.invalidateQuietly(context, creatorID)
	service.logger.Info("link_deleted",
		slog.String("creator", creatorID),
		slog.String("entry_id", entryID),
	)
	return document, nil
}

/*
CountClick records one click on an entry.

This is the one unauthenticated mutation: visitors click links on public
pages, so the owner is identified by the creator field of the request body,
never by a session. The entry's counter is incremented and a timestamped
click is appended; history has no upper bound.

Parameters:
  - context: Request context.
  - creatorID: The document owner, as claimed by the request body.
  - entryID: The entry's stable ID.
  - clickKind: ClickKindSocial or ClickKindCustom, already validated.

Returns:
  - error: [apperr.AppError] with 404 when the owner or entry is missing.
*/
func (service *Service) CountClick(context stdctx.Context, creatorID string, entryID string, clickKind string) error {
	document, err := service.linkRepository.FindByCreator(context, creatorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFoundMsg("Link not found")
		}
		return fmt.Errorf("link_service_count_click_failed: %w", err)
	}

	click := Click{ClickedAt: time.Now()}
	switch clickKind {
	case ClickKindSocial:
		link := document.findSocial(entryID)
		if link == nil {
			return apperr.NotFoundMsg("Link not found")
		}
		link.ClickCount++
		link.ClickHistory = append(link.ClickHistory, click)
	case ClickKindCustom:
		link := document.findCustom(entryID)
		if link == nil {
			return apperr.NotFoundMsg("Link not found")
		}
		link.ClickCount++
		link.ClickHistory = append(link.ClickHistory, click)
	}

	if err := service.linkRepository.Save(context, document); err != nil {
		return fmt.Errorf("link_service_count_click_failed: %w", err)
	}

	return nil
}

// # Helpers

// uploadIconQuietly stores a custom-link icon, returning nil both when no
// icon was supplied and when the upload failed. A missing icon must never
// cost the user their link.
func (service *Service) uploadIconQuietly(context stdctx.Context, icon *assets.File) *assets.Asset {
	if icon == nil {
		return nil
	}
	uploaded, err := service.storage.Upload(context, iconAssetFolder,
		icon.Filename, icon.ContentType, icon.Data)
	if err != nil {
		service.logger.Warn("icon upload failed",
			slog.String("filename", icon.Filename),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return uploaded
}

// deleteIconQuietly removes a stored icon if one exists; failures are
// logged and ignored.
func (service *Service) deleteIconQuietly(context stdctx.Context, assetID string) {
	if assetID == "" {
		return
	}
	if err := service.storage.Delete(context, assetID); err != nil {
		service.logger.Warn("icon delete failed",
			slog.String("asset_id", assetID),
			slog.String("error", err.Error()),
		)
	}
}

// invalidateQuietly drops the owner's cached public profile, which embeds
// the link document.
func (service *Service) invalidateQuietly(context stdctx.Context, creatorID string) {
	if err := service.invalidator.InvalidateUser(context, creatorID); err != nil {
		service.logger.Warn("profile cache invalidation failed",
			slog.String("creator", creatorID),
			slog.String("error", err.Error()),
		)
	}
}
