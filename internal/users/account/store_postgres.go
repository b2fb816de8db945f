// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the account storage contract.
//
// # Architecture
//
// The repository implements the domain-defined [AccountRepository] interface
// on the same users.account table the auth package writes to. Document-shaped
// fields (profilepic, design, seometadata) are JSONB columns decoded by pgx
// directly into the entity structs; updates replace the whole column, which
// keeps the read-modify-write semantics of the service layer honest.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/dberr"
	"github.com/taibuivan/linkbridge/internal/users/auth"
)

// PostgresAccountRepository implements AccountRepository using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// Enforce interface compliance at compile time.
var _ AccountRepository = (*PostgresAccountRepository)(nil)

// NewAccountRepository creates a new PostgreSQL implementation of the
// AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// accountColumns is the shared SELECT column list for hydrating a full User.
const accountColumns = `
	id, username, email, name, bio,
	profilepic, design, seometadata,
	authmethod, passwordhash, isconfirmed,
	confirmationtoken, resetpasswordtoken, provideraccesstoken,
	createdat, updatedat`

// scanAccount hydrates one User from a pgx row.
func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Bio,
		&user.ProfilePic,
		&user.Design,
		&user.SEOMetadata,
		&user.AuthMethod,
		&user.PasswordHash,
		&user.IsConfirmed,
		&user.ConfirmationToken,
		&user.ResetPasswordToken,
		&user.ProviderAccessToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - userID: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, userID string) (*auth.User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("User not found")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE username = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("User not found")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
Update persists the mutable slice of the account aggregate.

Auth-owned columns (email, auth method, credentials, tokens) are deliberately
not written here; the auth repository owns those.

Parameters:
  - context: context.Context
  - user: *auth.User (Aggregate carrying the new values)

Returns:
  - error: apperr.Conflict on a username collision, apperr.NotFound when the
    row vanished, or database errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET username = $2, name = $3, bio = $4,
		    profilepic = $5, design = $6, seometadata = $7,
		    updatedat = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Name,
		user.Bio,
		user.ProfilePic,
		user.Design,
		user.SEOMetadata,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username is already taken")
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundMsg("User not found")
	}

	return nil
}
