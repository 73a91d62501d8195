// Package storage owns the sqlite-backed record store for users and
// expenses. The repository is constructed once by the entry point and passed
// to both the account and ledger services; there is no package-level
// connection state.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens the database file, creating it and its directory when
// absent, and brings the schema to the current version.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation detects a UNIQUE constraint failure from the engine and
// names the offending column when it can.
func isUniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return "username", true
	case strings.Contains(msg, "users.email"):
		return "email", true
	default:
		return "row", true
	}
}

// EnsureAdmin seeds the privileged admin row at first run. On every later
// start this is a no-op.
func (r *Repository) EnsureAdmin(ctx context.Context) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", core.AdminUsername,
	).Scan(&exists)
	if err != nil {
		return &core.StoreError{Op: "check admin", Err: err}
	}
	if exists > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, age, sex, contact_number, username, password)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Admin", "Admin", "admin@example.com", 0, "NA", "NA", core.AdminUsername, "password",
	)
	if err != nil {
		return &core.StoreError{Op: "seed admin", Err: err}
	}

	slog.InfoContext(ctx, "Seeded admin account", "username", core.AdminUsername)
	return nil
}

// CreateUser inserts a new user row and returns its id. Uniqueness
// violations on username or email surface as ConflictError.
func (r *Repository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, age, sex, contact_number, username, password)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.Age, u.Sex, u.ContactNumber, u.Username, u.Password,
	)
	if err != nil {
		if field, ok := isUniqueViolation(err); ok {
			value := u.Username
			if field == "email" {
				value = u.Email
			}
			return 0, &core.ConflictError{Field: field, Value: value}
		}
		return 0, &core.StoreError{Op: "create user", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &core.StoreError{Op: "create user", Err: err}
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", u.Username)
	return id, nil
}

const userColumns = "id, first_name, last_name, email, age, sex, contact_number, username, password"

func scanUser(row interface{ Scan(...any) error }) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Age, &u.Sex,
		&u.ContactNumber, &u.Username, &u.Password)
	return u, err
}

// GetUserByUsername returns the row for the given username, or NotFoundError.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return nil, &core.StoreError{Op: "get user by username", Err: err}
	}
	return &u, nil
}

// GetUserByCredentials performs the exact-match (username, password) lookup.
// Passwords are compared in plain text.
func (r *Repository) GetUserByCredentials(ctx context.Context, username, password string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? AND password = ?",
		username, password)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, &core.StoreError{Op: "get user by credentials", Err: err}
	}
	return &u, nil
}

// ListUsers returns all users in insertion (id) order.
func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, &core.StoreError{Op: "list users", Err: err}
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, &core.StoreError{Op: "list users", Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list users", Err: err}
	}
	return users, nil
}

// DeleteUser removes a user row. Deleting an id that does not exist is a
// no-op; the user's expenses are deliberately left in place.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return &core.StoreError{Op: "delete user", Err: err}
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "User deleted", "id", id)
	}
	return nil
}

// CreateExpense inserts a ledger row and returns its id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount_cents, category, date, description)
		 VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Cents, e.Category, e.Date.String(), e.Description,
	)
	if err != nil {
		return 0, &core.StoreError{Op: "create expense", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &core.StoreError{Op: "create expense", Err: err}
	}

	slog.InfoContext(ctx, "Expense created",
		"id", id,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date.String())
	return id, nil
}

const expenseColumns = "id, user_id, amount_cents, category, date, description"

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &dateStr, &e.Description); err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = d
	return e, nil
}

// GetExpense returns a single ledger row, or NotFoundError.
func (r *Repository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "expense", ID: id}
	}
	if err != nil {
		return nil, &core.StoreError{Op: "get expense", Err: err}
	}
	return &e, nil
}

// DeleteExpense removes a ledger row. Absent ids delete zero rows and do not
// error.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return &core.StoreError{Op: "delete expense", Err: err}
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", id)
	}
	return nil
}

// ListExpenses returns ledger rows, optionally filtered to one owner.
func (r *Repository) ListExpenses(ctx context.Context, owner *int64, sort core.SortMode) ([]core.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses"
	var args []any
	if owner != nil {
		query += " WHERE user_id = ?"
		args = append(args, *owner)
	}
	switch sort {
	case core.SortDateAsc:
		query += " ORDER BY date ASC, id ASC"
	case core.SortDateDesc:
		query += " ORDER BY date DESC, id ASC"
	default:
		query += " ORDER BY id ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &core.StoreError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, &core.StoreError{Op: "list expenses", Err: err}
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list expenses", Err: err}
	}
	return expenses, nil
}

// SumInRange totals amounts with date in the closed interval [start, end].
// The stored ISO date strings order lexicographically, so BETWEEN matches
// chronological inclusion. Empty ranges sum to zero, not an error.
func (r *Repository) SumInRange(ctx context.Context, owner *int64, start, end core.Date) (core.Money, error) {
	query := "SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE date BETWEEN ? AND ?"
	args := []any{start.String(), end.String()}
	if owner != nil {
		query += " AND user_id = ?"
		args = append(args, *owner)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, &core.StoreError{Op: "sum expenses in range", Err: err}
	}
	return core.Money{Cents: cents}, nil
}
