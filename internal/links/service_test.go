// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package links_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/linkbridge/internal/links"
	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
)

// # Test Doubles

// fakeLinkRepository is an in-memory LinkRepository keyed by creator.
type fakeLinkRepository struct {
	documents map[string]*links.Document
}

func newFakeLinkRepository() *fakeLinkRepository {
	return &fakeLinkRepository{documents: make(map[string]*links.Document)}
}

func (repo *fakeLinkRepository) FindByCreator(_ context.Context, creatorID string) (*links.Document, error) {
	if document, ok := repo.documents[creatorID]; ok {
		clone := *document
		clone.SocialLinks = append([]links.SocialLink(nil), document.SocialLinks...)
		clone.CustomLinks = append([]links.CustomLink(nil), document.CustomLinks...)
		return &clone, nil
	}
	return nil, apperr.NotFoundMsg("No links found")
}

func (repo *fakeLinkRepository) Create(_ context.Context, document *links.Document) error {
	if _, ok := repo.documents[document.Creator]; ok {
		return apperr.Conflict("Link document already exists")
	}
	clone := *document
	repo.documents[document.Creator] = &clone
	return nil
}

func (repo *fakeLinkRepository) Save(_ context.Context, document *links.Document) error {
	for creator, existing := range repo.documents {
		if existing.ID == document.ID {
			clone := *document
			repo.documents[creator] = &clone
			return nil
		}
	}
	return apperr.NotFoundMsg("No links found")
}

// fakeIconStorage records uploads and deletes; uploads can be forced to fail.
type fakeIconStorage struct {
	uploads    []string // filenames
	deletes    []string // asset IDs
	failUpload bool
}

func (storage *fakeIconStorage) Upload(_ context.Context, folder, filename, _ string, _ []byte) (*assets.Asset, error) {
	if storage.failUpload {
		return nil, assert.AnError
	}
	storage.uploads = append(storage.uploads, filename)
	assetID := folder + "/fake-" + filename
	return &assets.Asset{URL: "https://cdn.test/" + assetID, AssetID: assetID}, nil
}

func (storage *fakeIconStorage) Delete(_ context.Context, assetID string) error {
	storage.deletes = append(storage.deletes, assetID)
	return nil
}

// fakeInvalidator records invalidated user IDs.
type fakeInvalidator struct {
	invalidated []string
}

func (invalidator *fakeInvalidator) InvalidateUser(_ context.Context, userID string) error {
	invalidator.invalidated = append(invalidator.invalidated, userID)
	return nil
}

// newTestService wires a Service with fresh fakes.
func newTestService() (*links.Service, *fakeLinkRepository, *fakeIconStorage, *fakeInvalidator) {
	repo := newFakeLinkRepository()
	storage := &fakeIconStorage{}
	invalidator := &fakeInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := links.NewService(repo, storage, invalidator, logger)
	return service, repo, storage, invalidator
}

// # Adding Links

func TestService_AddLink_CreatesDocumentLazily(t *testing.T) {
	service, repo, _, invalidator := newTestService()

	document, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github",
		URL:   "https://github.com/jane",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, document.ID)
	assert.Equal(t, "user-1", document.Creator)
	require.Len(t, document.SocialLinks, 1)
	assert.Equal(t, "github", document.SocialLinks[0].Title)
	assert.NotEmpty(t, document.SocialLinks[0].ID)
	assert.Empty(t, document.CustomLinks)

	// First add persisted a fresh document and dropped the cached profile
	assert.Len(t, repo.documents, 1)
	assert.Equal(t, []string{"user-1"}, invalidator.invalidated)
}

func TestService_AddLink_AppendsToExistingDocument(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)

	document, err := service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog", URL: "https://blog.test",
	})
	require.NoError(t, err)

	assert.Len(t, document.SocialLinks, 1)
	require.Len(t, document.CustomLinks, 1)
	assert.Equal(t, "My blog", document.CustomLinks[0].Title)
}

func TestService_AddLink_CustomWithIcon(t *testing.T) {
	service, _, storage, _ := newTestService()

	document, err := service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog",
		URL:   "https://blog.test",
		Icon:  &assets.File{Filename: "icon.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	require.Len(t, document.CustomLinks, 1)
	assert.Equal(t, "link-icons/fake-icon.png", document.CustomLinks[0].IconAssetID)
	assert.Equal(t, []string{"icon.png"}, storage.uploads)
}

func TestService_AddLink_IconUploadFailureIsSwallowed(t *testing.T) {
	service, _, storage, _ := newTestService()
	storage.failUpload = true

	document, err := service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog",
		URL:   "https://blog.test",
		Icon:  &assets.File{Filename: "icon.png", ContentType: "image/png", Data: []byte("png")},
	})

	// The link survives with empty icon fields
	require.NoError(t, err)
	require.Len(t, document.CustomLinks, 1)
	assert.Empty(t, document.CustomLinks[0].IconURL)
	assert.Empty(t, document.CustomLinks[0].IconAssetID)
}

// # Updating Links

func TestService_UpdateLink_PreservesClickData(t *testing.T) {
	service, repo, _, _ := newTestService()
	document, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)
	entryID := document.SocialLinks[0].ID

	// Simulate accumulated clicks before the edit
	stored := repo.documents["user-1"]
	stored.SocialLinks[0].ClickCount = 7
	stored.SocialLinks[0].ClickHistory = make([]links.Click, 7)

	updated, err := service.UpdateLink(context.Background(), "user-1", entryID, links.CollectionSocial, links.EntryInput{
		Title: "GitHub", URL: "https://github.com/jane-doe",
	})
	require.NoError(t, err)

	require.Len(t, updated.SocialLinks, 1)
	assert.Equal(t, entryID, updated.SocialLinks[0].ID)
	assert.Equal(t, "GitHub", updated.SocialLinks[0].Title)
	assert.Equal(t, "https://github.com/jane-doe", updated.SocialLinks[0].URL)
	assert.Equal(t, 7, updated.SocialLinks[0].ClickCount)
	assert.Len(t, updated.SocialLinks[0].ClickHistory, 7)
}

func TestService_UpdateLink_UnknownEntry(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)

	_, err = service.UpdateLink(context.Background(), "user-1", "missing", links.CollectionSocial, links.EntryInput{
		Title: "x", URL: "https://x.test",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestService_UpdateLink_NoDocument(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.UpdateLink(context.Background(), "user-1", "missing", links.CollectionSocial, links.EntryInput{
		Title: "x", URL: "https://x.test",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestService_UpdateLink_IconReplaceDeletesOld(t *testing.T) {
	service, _, storage, _ := newTestService()
	document, err := service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog",
		URL:   "https://blog.test",
		Icon:  &assets.File{Filename: "old.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	entryID := document.CustomLinks[0].ID

	updated, err := service.UpdateLink(context.Background(), "user-1", entryID, links.CollectionCustom, links.EntryInput{
		Title: "My blog",
		URL:   "https://blog.test",
		Icon:  &assets.File{Filename: "new.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"link-icons/fake-old.png"}, storage.deletes)
	assert.Equal(t, "link-icons/fake-new.png", updated.CustomLinks[0].IconAssetID)
}

// # Deleting Links

func TestService_DeleteLink(t *testing.T) {
	service, _, storage, _ := newTestService()
	document, err := service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog",
		URL:   "https://blog.test",
		Icon:  &assets.File{Filename: "icon.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	entryID := document.CustomLinks[0].ID

	updated, err := service.DeleteLink(context.Background(), "user-1", entryID, links.CollectionCustom)
	require.NoError(t, err)

	assert.Empty(t, updated.CustomLinks)
	// The icon went with it
	assert.Equal(t, []string{"link-icons/fake-icon.png"}, storage.deletes)
}

func TestService_DeleteLink_UnknownEntry(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)

	_, err = service.DeleteLink(context.Background(), "user-1", "missing", links.CollectionSocial)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

// # Click Tracking

func TestService_CountClick(t *testing.T) {
	service, repo, _, _ := newTestService()
	document, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)
	entryID := document.SocialLinks[0].ID

	const clicks = 3
	for i := 0; i < clicks; i++ {
		require.NoError(t, service.CountClick(context.Background(), "user-1", entryID, links.ClickKindSocial))
	}

	stored := repo.documents["user-1"]
	entry := stored.SocialLinks[0]
	assert.Equal(t, clicks, entry.ClickCount)
	require.Len(t, entry.ClickHistory, clicks)
	for i := 1; i < clicks; i++ {
		assert.False(t, entry.ClickHistory[i].ClickedAt.Before(entry.ClickHistory[i-1].ClickedAt))
	}
}

func TestService_CountClick_UnknownOwnerOrEntry(t *testing.T) {
	service, _, _, _ := newTestService()

	err := service.CountClick(context.Background(), "nobody", "entry", links.ClickKindSocial)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	_, addErr := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, addErr)

	err = service.CountClick(context.Background(), "user-1", "missing", links.ClickKindSocial)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

// # Stats

func TestService_GetStats_ConcatenatesSocialThenCustom(t *testing.T) {
	service, _, _, _ := newTestService()
	_, err := service.AddLink(context.Background(), "user-1", links.CollectionSocial, links.EntryInput{
		Title: "github", URL: "https://github.com/jane",
	})
	require.NoError(t, err)
	_, err = service.AddLink(context.Background(), "user-1", links.CollectionCustom, links.EntryInput{
		Title: "My blog", URL: "https://blog.test",
	})
	require.NoError(t, err)

	entries, err := service.GetStats(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, links.ClickKindSocial, entries[0].LinkType)
	assert.Equal(t, "github", entries[0].Title)
	assert.Equal(t, links.ClickKindCustom, entries[1].LinkType)
	assert.Equal(t, "My blog", entries[1].Title)
}

func TestService_GetStats_NoDocument(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.GetStats(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
