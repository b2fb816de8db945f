// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the link storage contract.
//
// # Architecture
//
// A document is one row in links.document with both collections stored as
// JSONB arrays. pgx decodes the arrays straight into the entity slices, so
// the stable entry IDs and click history survive round trips untouched. The
// creator column is unique: one document per user, enforced by the schema.
package links

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/dberr"
)

// PostgresLinkRepository implements LinkRepository using pgx.
type PostgresLinkRepository struct {
	pool *pgxpool.Pool
}

// Enforce interface compliance at compile time.
var _ LinkRepository = (*PostgresLinkRepository)(nil)

// NewLinkRepository creates a new PostgreSQL implementation of the
// LinkRepository.
func NewLinkRepository(pool *pgxpool.Pool) *PostgresLinkRepository {
	return &PostgresLinkRepository{pool: pool}
}

/*
FindByCreator retrieves the document owned by the given user.
*/
func (repository *PostgresLinkRepository) FindByCreator(context context.Context, creatorID string) (*Document, error) {
	const query = `
		SELECT id, creator, sociallinks, customlinks, createdat, updatedat
		FROM links.document
		WHERE creator = $1`

	document := &Document{}
	err := repository.pool.QueryRow(context, query, creatorID).Scan(
		&document.ID,
		&document.Creator,
		&document.SocialLinks,
		&document.CustomLinks,
		&document.CreatedAt,
		&document.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("No links found")
		}
		return nil, fmt.Errorf("postgres_link_repo_find_by_creator_failed: %w", err)
	}

	return document, nil
}

/*
Create persists a brand-new document for a creator.
*/
func (repository *PostgresLinkRepository) Create(context context.Context, document *Document) error {
	const query = `
		INSERT INTO links.document (id, creator, sociallinks, customlinks, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	document.CreatedAt = now
	document.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		document.ID,
		document.Creator,
		document.SocialLinks,
		document.CustomLinks,
		document.CreatedAt,
		document.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Link document already exists")
		}
		return fmt.Errorf("postgres_link_repo_create_failed: %w", err)
	}

	return nil
}

/*
Save replaces both collections of an existing document.
*/
func (repository *PostgresLinkRepository) Save(context context.Context, document *Document) error {
	const query = `
		UPDATE links.document
		SET sociallinks = $2, customlinks = $3, updatedat = $4
		WHERE id = $1`

	document.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		document.ID,
		document.SocialLinks,
		document.CustomLinks,
		document.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_link_repo_save_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundMsg("No links found")
	}

	return nil
}
