package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is an account row. Password holds the encoded hash and must never be
// logged or handed to a template.
type User struct {
	ID          int64
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsSuperuser bool
	IsStaff     bool
	IsActive    bool
	LastLogin   sql.NullTime
	DateJoined  time.Time
}

const userColumns = `id, username, email, password, first_name, last_name,
	is_superuser, is_staff, is_active, last_login, date_joined`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName,
		&u.LastName, &u.IsSuperuser, &u.IsStaff, &u.IsActive, &u.LastLogin, &u.DateJoined)
	return u, err
}

// GetUserByNameOrEmail looks up a user by username or email address.
// This is a pure lookup with no side effects; recording a login is a separate,
// explicit step (TouchLastLogin).
func (q *Queries) GetUserByNameOrEmail(ctx context.Context, nameOrEmail string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+`
		FROM users WHERE username = ? OR email = ?`, nameOrEmail, nameOrEmail)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("querying user %q: %w", nameOrEmail, err)
	}
	return u, nil
}

// GetUserByID looks up a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("querying user %d: %w", id, err)
	}
	return u, nil
}

// GetUserIDByNameOrEmail resolves a username or email address to a user ID.
func (q *Queries) GetUserIDByNameOrEmail(ctx context.Context, nameOrEmail string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ? OR email = ?`,
		nameOrEmail, nameOrEmail).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolving user %q: %w", nameOrEmail, err)
	}
	return id, nil
}

// TouchLastLogin stamps last_login with the current time. Called only after a
// successful authentication or registration.
func (q *Queries) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now(), id); err != nil {
		return fmt.Errorf("stamping last login for user %d: %w", id, err)
	}
	return nil
}

// CreateUserParams holds the fields for a new account.
type CreateUserParams struct {
	Username   string
	Email      string
	Password   string // already hashed by the caller
	FirstName  string
	LastName   string
	IsStaff    bool
	DateJoined time.Time
}

// CreateUser inserts a new user. The UNIQUE indexes on username and email make
// the insert atomic; a duplicate of either returns ErrConflict.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO users
		(username, email, password, first_name, last_name, is_staff, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.Password, arg.FirstName, arg.LastName,
		arg.IsStaff, arg.DateJoined)
	if isUniqueViolation(err) {
		return User{}, ErrConflict
	}
	if err != nil {
		return User{}, fmt.Errorf("inserting user %q: %w", arg.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("reading new user id: %w", err)
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserPassword replaces the stored hash for the user matching the given
// username or email address.
func (q *Queries) UpdateUserPassword(ctx context.Context, hashed, nameOrEmail string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE users SET password = ?
		WHERE username = ? OR email = ?`, hashed, nameOrEmail, nameOrEmail)
	if err != nil {
		return fmt.Errorf("updating password for %q: %w", nameOrEmail, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking password update for %q: %w", nameOrEmail, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
