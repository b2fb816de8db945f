// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/linkbridge/internal/links"
	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/internal/users/account"
	"github.com/taibuivan/linkbridge/internal/users/auth"
	"github.com/taibuivan/linkbridge/pkg/pointer"
)

// # Test Doubles

// fakeAccountRepository is an in-memory AccountRepository for service tests.
type fakeAccountRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeAccountRepository) FindByID(_ context.Context, userID string) (*auth.User, error) {
	if user, ok := repo.users[userID]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFoundMsg("User not found")
}

func (repo *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFoundMsg("User not found")
}

func (repo *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFoundMsg("User not found")
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

// fakeLinkReader serves a single canned document.
type fakeLinkReader struct {
	document *links.Document
}

func (reader *fakeLinkReader) FindByCreator(_ context.Context, creatorID string) (*links.Document, error) {
	if reader.document != nil && reader.document.Creator == creatorID {
		return reader.document, nil
	}
	return nil, nil
}

// fakeStorage records uploads and deletes instead of talking to a bucket.
type fakeStorage struct {
	uploads    []string // folders, in order
	deletes    []string // asset IDs, in order
	failDelete bool
	sequence   int
}

func (storage *fakeStorage) Upload(_ context.Context, folder, filename, _ string, _ []byte) (*assets.Asset, error) {
	storage.sequence++
	storage.uploads = append(storage.uploads, folder)
	assetID := folder + "/fake-" + filename
	return &assets.Asset{URL: "https://cdn.test/" + assetID, AssetID: assetID}, nil
}

func (storage *fakeStorage) Delete(_ context.Context, assetID string) error {
	if storage.failDelete {
		return assert.AnError
	}
	storage.deletes = append(storage.deletes, assetID)
	return nil
}

// fakePasswords records delegated password changes.
type fakePasswords struct {
	calls int
}

func (passwords *fakePasswords) ChangePassword(_ context.Context, _, _, _ string) error {
	passwords.calls++
	return nil
}

// fakeProfileCache is an in-memory ProfileCache tracking invalidations.
type fakeProfileCache struct {
	entries     map[string]*account.PublicProfile
	invalidated []string
	setCount    int
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{entries: make(map[string]*account.PublicProfile)}
}

func (cache *fakeProfileCache) Get(_ context.Context, username string) (*account.PublicProfile, error) {
	return cache.entries[username], nil
}

func (cache *fakeProfileCache) Set(_ context.Context, username string, profile *account.PublicProfile, _ time.Duration) error {
	cache.setCount++
	cache.entries[username] = profile
	return nil
}

func (cache *fakeProfileCache) Invalidate(_ context.Context, usernames ...string) error {
	for _, username := range usernames {
		delete(cache.entries, username)
		cache.invalidated = append(cache.invalidated, username)
	}
	return nil
}

type testDeps struct {
	repo      *fakeAccountRepository
	reader    *fakeLinkReader
	storage   *fakeStorage
	passwords *fakePasswords
	cache     *fakeProfileCache
}

// newTestService wires a Service with fresh fakes and one seeded account.
func newTestService() (*account.Service, *testDeps) {
	deps := &testDeps{
		repo:      newFakeAccountRepository(),
		reader:    &fakeLinkReader{},
		storage:   &fakeStorage{},
		passwords: &fakePasswords{},
		cache:     newFakeProfileCache(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := account.NewService(deps.repo, deps.reader, deps.storage, deps.passwords, deps.cache, logger)
	return service, deps
}

// seedUser inserts a confirmed account with the default design.
func seedUser(deps *testDeps) *auth.User {
	user := &auth.User{
		ID:          "user-1",
		Username:    "jane-doe",
		Email:       "jane@x.com",
		Name:        "Jane Doe",
		Bio:         auth.DefaultBio,
		Design:      auth.DefaultDesign(),
		AuthMethod:  auth.AuthMethodPassword,
		IsConfirmed: true,
	}
	deps.repo.users[user.ID] = user
	return user
}

// # Public Profile

func TestService_GetPublicProfile(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)
	deps.reader.document = &links.Document{
		ID:      "doc-1",
		Creator: "user-1",
		SocialLinks: []links.SocialLink{
			{ID: "s1", Title: "github", URL: "https://github.com/jane"},
		},
	}

	profile, err := service.GetPublicProfile(context.Background(), "jane-doe")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "jane-doe", profile.Username)
	assert.Equal(t, "Jane Doe", profile.Name)
	require.NotNil(t, profile.Links)
	assert.Len(t, profile.Links.SocialLinks, 1)

	// The assembled profile is now cached and the next read skips assembly
	assert.Equal(t, 1, deps.cache.setCount)
	_, err = service.GetPublicProfile(context.Background(), "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, 1, deps.cache.setCount)
}

func TestService_GetPublicProfile_NoLinksYet(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	profile, err := service.GetPublicProfile(context.Background(), "jane-doe")
	require.NoError(t, err)
	assert.Nil(t, profile.Links)
}

func TestService_GetPublicProfile_UnknownUsername(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetPublicProfile(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

// # Profile Updates

func TestService_UpdateProfile(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileUpdate{
		Name: "Jane D.",
		Bio:  "Building things",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane D.", updated.Name)
	assert.Equal(t, "Building things", updated.Bio)
	assert.Contains(t, deps.cache.invalidated, "jane-doe")
}

func TestService_UpdateProfile_AvatarReplace(t *testing.T) {
	service, deps := newTestService()
	user := seedUser(deps)
	user.ProfilePic = auth.ProfilePic{URL: "https://cdn.test/avatars/old", AssetID: "avatars/old"}

	updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileUpdate{
		Name:   "Jane Doe",
		Bio:    user.Bio,
		Avatar: &assets.File{Filename: "new.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	// Old object removed, new one uploaded into the avatars folder
	assert.Equal(t, []string{"avatars/old"}, deps.storage.deletes)
	assert.Equal(t, []string{"avatars"}, deps.storage.uploads)
	assert.Equal(t, "avatars/fake-new.png", updated.ProfilePic.AssetID)
}

func TestService_UpdateProfile_AvatarRemove(t *testing.T) {
	service, deps := newTestService()
	user := seedUser(deps)
	user.ProfilePic = auth.ProfilePic{URL: "https://cdn.test/avatars/old", AssetID: "avatars/old"}

	updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileUpdate{
		Name:         "Jane Doe",
		Bio:          user.Bio,
		RemoveAvatar: true,
	})
	require.NoError(t, err)

	assert.False(t, updated.ProfilePic.IsSet())
	assert.Equal(t, []string{"avatars/old"}, deps.storage.deletes)
}

func TestService_UpdateProfile_DeleteFailureIsBestEffort(t *testing.T) {
	service, deps := newTestService()
	user := seedUser(deps)
	user.ProfilePic = auth.ProfilePic{URL: "https://cdn.test/avatars/old", AssetID: "avatars/old"}
	deps.storage.failDelete = true

	updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileUpdate{
		Name:         "Jane Doe",
		Bio:          user.Bio,
		RemoveAvatar: true,
	})

	// An orphaned object never blocks the update itself
	require.NoError(t, err)
	assert.False(t, updated.ProfilePic.IsSet())
}

// # Identity Updates

func TestService_UpdateUsername(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateUsername(context.Background(), "user-1", "jane-v2")
	require.NoError(t, err)

	assert.Equal(t, "jane-v2", updated.Username)
	// Both the old and the new page URL drop out of the cache
	assert.ElementsMatch(t, []string{"jane-doe", "jane-v2"}, deps.cache.invalidated)
}

func TestService_UpdateUsername_Taken(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)
	deps.repo.users["user-2"] = &auth.User{ID: "user-2", Username: "jane-v2"}

	_, err := service.UpdateUsername(context.Background(), "user-1", "jane-v2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Username is already taken", apperr.As(err).Message)
}

func TestService_UpdateUsername_SameNameIsNoop(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateUsername(context.Background(), "user-1", "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", updated.Username)
}

func TestService_ChangePassword_Delegates(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	err := service.ChangePassword(context.Background(), "user-1", "old", "newpass")
	require.NoError(t, err)
	assert.Equal(t, 1, deps.passwords.calls)
}

// # Design Updates

func TestService_UpdateTheme_ClearsBackground(t *testing.T) {
	service, deps := newTestService()
	user := seedUser(deps)
	user.Design.Theme = ""
	user.Design.Background = auth.Background{
		Color: "#101010",
		Image: auth.ProfilePic{URL: "https://cdn.test/backgrounds/old", AssetID: "backgrounds/old"},
	}

	updated, err := service.UpdateTheme(context.Background(), "user-1", account.ThemeUpdate{Theme: "midnight"})
	require.NoError(t, err)

	assert.Equal(t, "midnight", updated.Design.Theme)
	assert.Equal(t, auth.Background{}, updated.Design.Background)
	assert.Equal(t, []string{"backgrounds/old"}, deps.storage.deletes)
}

func TestService_UpdateBackground_ClearsTheme(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateBackground(context.Background(), "user-1", account.BackgroundUpdate{
		Color: "#101010",
		Image: &assets.File{Filename: "bg.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Design.Theme)
	assert.Equal(t, "#101010", updated.Design.Background.Color)
	assert.Equal(t, "backgrounds/fake-bg.jpg", updated.Design.Background.Image.AssetID)
	assert.Equal(t, []string{"backgrounds"}, deps.storage.uploads)
}

func TestService_UpdateBackground_ReplacesOldImage(t *testing.T) {
	service, deps := newTestService()
	user := seedUser(deps)
	user.Design.Background = auth.Background{
		Image: auth.ProfilePic{URL: "https://cdn.test/backgrounds/old", AssetID: "backgrounds/old"},
	}

	_, err := service.UpdateBackground(context.Background(), "user-1", account.BackgroundUpdate{Color: "#fff"})
	require.NoError(t, err)

	assert.Equal(t, []string{"backgrounds/old"}, deps.storage.deletes)
}

func TestService_UpdateButtonStyle_ShallowMerge(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateButtonStyle(context.Background(), "user-1", account.ButtonStyleUpdate{
		Radius: pointer.To("rounded-md"),
	})
	require.NoError(t, err)

	defaults := auth.DefaultDesign().ButtonStyle
	assert.Equal(t, "rounded-md", updated.Design.ButtonStyle.Radius)
	assert.Equal(t, defaults.Type, updated.Design.ButtonStyle.Type)
	assert.Equal(t, defaults.BgColor, updated.Design.ButtonStyle.BgColor)
	assert.Equal(t, defaults.TextColor, updated.Design.ButtonStyle.TextColor)
}

func TestService_UpdateFontStyle_ShallowMerge(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateFontStyle(context.Background(), "user-1", account.FontStyleUpdate{
		Color: pointer.To("#444"),
	})
	require.NoError(t, err)

	assert.Equal(t, "#444", updated.Design.FontStyle.Color)
	assert.Equal(t, auth.DefaultDesign().FontStyle.Family, updated.Design.FontStyle.Family)
}

func TestService_UpdateSocialPosition(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateSocialPosition(context.Background(), "user-1", account.SocialPositionUpdate{
		Position: auth.SocialPositionBottom,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.SocialPositionBottom, updated.Design.SocialPosition)
}

func TestService_UpdateSEO(t *testing.T) {
	service, deps := newTestService()
	seedUser(deps)

	updated, err := service.UpdateSEO(context.Background(), "user-1", account.SEOUpdate{
		Title:       "Jane | Links",
		Description: "Everything Jane ships",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane | Links", updated.SEOMetadata.Title)
	assert.Equal(t, "Everything Jane ships", updated.SEOMetadata.Desc)
	assert.Contains(t, deps.cache.invalidated, "jane-doe")
}
