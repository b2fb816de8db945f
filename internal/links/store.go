// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Storage contract for link documents.
package links

import (
	stdctx "context"
)

/*
LinkRepository is the persistence boundary for link documents.

The service layer works read-modify-write: it loads the full document,
mutates the collections in memory, and saves the whole thing back. Two
concurrent writers to the same document race and the later save wins; the
document is small enough that this stays acceptable.
*/
type LinkRepository interface {

	/*
		FindByCreator retrieves the document owned by the given user.

		Parameters:
		  - context: context.Context
		  - creatorID: The owning user's ID

		Returns:
		  - *Document: The hydrated document
		  - error: apperr.NotFound when the user has no document yet
	*/
	FindByCreator(context stdctx.Context, creatorID string) (*Document, error)

	/*
		Create persists a brand-new document for a creator.

		Returns:
		  - error: apperr.Conflict when the creator already owns one
	*/
	Create(context stdctx.Context, document *Document) error

	/*
		Save replaces both collections of an existing document.

		Returns:
		  - error: apperr.NotFound when the document row vanished
	*/
	Save(context stdctx.Context, document *Document) error
}
