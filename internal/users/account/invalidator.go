// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	stdctx "context"
	"fmt"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
)

// UserProfileInvalidator adapts the username-keyed profile cache to callers
// that only know the owner's user ID, such as the links package. It resolves
// the ID to the current username and drops that cache entry.
type UserProfileInvalidator struct {
	accountRepository AccountRepository
	profileCache      ProfileCache
}

// NewUserProfileInvalidator wires the adapter.
func NewUserProfileInvalidator(accountRepository AccountRepository, profileCache ProfileCache) *UserProfileInvalidator {
	return &UserProfileInvalidator{
		accountRepository: accountRepository,
		profileCache:      profileCache,
	}
}

/*
InvalidateUser drops the cached public profile of the given user.

A user that no longer exists has nothing cached worth keeping fresh, so an
unknown ID is treated as already invalidated.
*/
func (invalidator *UserProfileInvalidator) InvalidateUser(context stdctx.Context, userID string) error {
	user, err := invalidator.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("profile_invalidator_lookup_failed: %w", err)
	}

	return invalidator.profileCache.Invalidate(context, user.Username)
}
