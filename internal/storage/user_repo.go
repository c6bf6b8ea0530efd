// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Annany2002/recipe-backend/internal/domain"
)

// Specific errors for user and session operations
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrTokenNotFound = errors.New("session token not found")
)

const userColumns = `user_id, first_name, last_name, email, age, password_hash, title, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Age,
		&user.PasswordHash, &user.Title, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the given column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return column == "" || strings.Contains(sqliteErr.Error(), column)
	}
	return false
}

// --- User Operations ---

// CreateUser inserts a new user. ID and timestamps are assigned when empty.
func CreateUser(ctx context.Context, db DBTX, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	sqlStatement := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement, user.ID, user.FirstName, user.LastName, user.Email,
		user.Age, user.PasswordHash, user.Title, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return ErrEmailExists
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", user.Email, err)
		return fmt.Errorf("database error during user creation: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by their email address.
func FindUserByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error) {
	sqlStatement := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`
	user, err := scanUser(db.QueryRowContext(ctx, sqlStatement, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by email %s: %v", email, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id.
func FindUserByID(ctx context.Context, db DBTX, userID string) (*domain.User, error) {
	sqlStatement := `SELECT ` + userColumns + ` FROM users WHERE user_id = ? LIMIT 1`
	user, err := scanUser(db.QueryRowContext(ctx, sqlStatement, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by id %s: %v", userID, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// UpdateUser writes the mutable profile fields of user back to the store.
func UpdateUser(ctx context.Context, db DBTX, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	sqlStatement := `UPDATE users SET first_name = ?, last_name = ?, email = ?, age = ?, password_hash = ?, updated_at = ? WHERE user_id = ?`

	result, err := db.ExecContext(ctx, sqlStatement, user.FirstName, user.LastName, user.Email,
		user.Age, user.PasswordHash, user.UpdatedAt, user.ID)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return ErrEmailExists
		}
		customLog.Warnf("Storage: Failed to update user %s: %v", user.ID, err)
		return fmt.Errorf("database error during user update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm user update: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user together with their sessions, recipes and the
// ingredients of those recipes. Children are deleted before parents.
func DeleteUser(ctx context.Context, db *sql.DB, userID string) error {
	return WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		steps := []struct {
			what string
			sql  string
		}{
			{"ingredients", `DELETE FROM ingredients WHERE recipe_id IN (SELECT recipe_id FROM recipes WHERE author_id = ?)`},
			{"recipes", `DELETE FROM recipes WHERE author_id = ?`},
			{"sessions", `DELETE FROM user_tokens WHERE user_id = ?`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.sql, userID); err != nil {
				customLog.Warnf("Storage: Failed deleting %s of user %s: %v", step.what, userID, err)
				return fmt.Errorf("database error deleting user %s: %w", step.what, err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
		if err != nil {
			customLog.Warnf("Storage: Failed deleting user %s: %v", userID, err)
			return fmt.Errorf("database error deleting user: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed confirming user deletion: %w", err)
		}
		if rowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// --- Session Token Operations ---

// AddToken appends token to the user's active session set.
func AddToken(ctx context.Context, db DBTX, userID, token string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO user_tokens (token, user_id, created_at) VALUES (?, ?, ?)`,
		token, userID, time.Now().UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to store session for user %s: %v", userID, err)
		return fmt.Errorf("database error storing session: %w", err)
	}
	return nil
}

// HasToken reports whether token is in the user's active session set.
func HasToken(ctx context.Context, db DBTX, userID, token string) (bool, error) {
	var exists int
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id = ? AND token = ?)`,
		userID, token).Scan(&exists)
	if err != nil {
		customLog.Warnf("Storage: Failed to look up session for user %s: %v", userID, err)
		return false, fmt.Errorf("database error checking session: %w", err)
	}
	return exists == 1, nil
}

// RemoveToken revokes a single session.
func RemoveToken(ctx context.Context, db DBTX, userID, token string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = ? AND token = ?`, userID, token)
	if err != nil {
		customLog.Warnf("Storage: Failed to revoke session for user %s: %v", userID, err)
		return fmt.Errorf("database error revoking session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming session revocation: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// RemoveAllTokens clears the user's active session set.
func RemoveAllTokens(ctx context.Context, db DBTX, userID string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = ?`, userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to revoke sessions for user %s: %v", userID, err)
		return 0, fmt.Errorf("database error revoking sessions: %w", err)
	}
	return result.RowsAffected()
}
