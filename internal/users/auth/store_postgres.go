// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager. Document-shaped profile fields are
// stored as JSONB and decoded by pgx directly into the entity structs.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/linkbridge/internal/platform/apperr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// Enforce interface compliance at compile time.
var _ UserRepository = (*PostgresUserRepository)(nil)

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the shared SELECT column list for hydrating a full User.
const userColumns = `
	id, username, email, name, bio,
	profilepic, design, seometadata,
	authmethod, passwordhash, isconfirmed,
	confirmationtoken, resetpasswordtoken, provideraccesstoken,
	createdat, updatedat`

// scanUser hydrates one User from a pgx row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
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
Create persists a new user record into the users.account table.

Description: Deep-persists the full account aggregate, initializing
timestamps if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, name, bio,
			profilepic, design, seometadata,
			authmethod, passwordhash, isconfirmed,
			confirmationtoken, resetpasswordtoken, provideraccesstoken,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Name,
		user.Bio,
		user.ProfilePic,
		user.Design,
		user.SEOMetadata,
		user.AuthMethod,
		user.PasswordHash,
		user.IsConfirmed,
		user.ConfirmationToken,
		user.ResetPasswordToken,
		user.ProviderAccessToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundMsg("User not found with this username")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
SetConfirmationToken attaches a confirmation token digest to the account.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetConfirmationToken(context context.Context, userID string, token string) error {
	const query = `
		UPDATE users.account
		SET confirmationtoken = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_confirmation_token_failed: %w", err)
	}

	return nil
}

/*
MarkConfirmed flips the account to confirmed and clears the stored token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) MarkConfirmed(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET isconfirmed = TRUE, confirmationtoken = '', updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_confirmed_failed: %w", err)
	}

	return nil
}

/*
SetResetToken attaches a password reset token digest to the account.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID string, token string) error {
	const query = `
		UPDATE users.account
		SET resetpasswordtoken = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_reset_token_failed: %w", err)
	}

	return nil
}

/*
ResetCredentials replaces the password hash and clears the consumed reset
token in a single statement, so a used link can never be replayed.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ResetCredentials(context context.Context, userID string, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, resetpasswordtoken = '', updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_reset_credentials_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID string, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}
