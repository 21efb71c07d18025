package owner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for owner persistence operations.
type Repository interface {
	Create(ctx context.Context, o *Owner) error
	List(ctx context.Context) ([]Owner, error)
	GetByID(ctx context.Context, id int64) (*Owner, error)
	Update(ctx context.Context, o *Owner) error
	Delete(ctx context.Context, id int64) error
	CountCars(ctx context.Context, id int64) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed owner repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new owner and assigns its store-generated id.
func (r *SQLiteRepository) Create(ctx context.Context, o *Owner) error {
	const query = `INSERT INTO owners (name, phone, email) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		o.Name, nullStr(o.Phone), nullStr(o.Email))
	if err != nil {
		return fmt.Errorf("inserting owner %q: %w", o.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading owner insert id: %w", err)
	}
	o.ID = id
	return nil
}

// List returns all owners in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Owner, error) {
	const query = `SELECT id, name, phone, email, created_at, updated_at
		FROM owners ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer rows.Close()

	var owners []Owner
	for rows.Next() {
		o, err := scanOwnerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning owner row: %w", err)
		}
		owners = append(owners, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owner rows: %w", err)
	}
	return owners, nil
}

// GetByID returns a single owner by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Owner, error) {
	const query = `SELECT id, name, phone, email, created_at, updated_at
		FROM owners WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanOwner(row)
}

// Update updates an existing owner record.
func (r *SQLiteRepository) Update(ctx context.Context, o *Owner) error {
	const query = `UPDATE owners SET name = ?, phone = ?, email = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		o.Name, nullStr(o.Phone), nullStr(o.Email), o.ID)
	if err != nil {
		return fmt.Errorf("updating owner %d: %w", o.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrOwnerNotFound
	}
	return nil
}

// Delete removes a single owner by ID.
// Returns ErrOwnerHasCars if cars still reference this owner.
// Returns ErrOwnerNotFound if the owner does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	// Check for referencing cars before touching the row.
	count, err := r.CountCars(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrOwnerHasCars
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM owners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting owner %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrOwnerNotFound
	}
	return nil
}

// CountCars returns the number of cars referencing this owner.
func (r *SQLiteRepository) CountCars(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cars WHERE owner_id = ?", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cars for owner %d: %w", id, err)
	}
	return count, nil
}

// nullStr converts an optional string to sql.NullString for nullable columns.
func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// scanOwner scans a single row into an Owner (for QueryRow).
func scanOwner(row *sql.Row) (*Owner, error) {
	var o Owner
	var phone, email sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&o.ID, &o.Name, &phone, &email, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("scanning owner: %w", err)
	}
	o.Phone = phone.String
	o.Email = email.String
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}

// scanOwnerRow scans an owner from a Rows cursor.
func scanOwnerRow(rows *sql.Rows) (*Owner, error) {
	var o Owner
	var phone, email sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&o.ID, &o.Name, &phone, &email, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning owner row: %w", err)
	}
	o.Phone = phone.String
	o.Email = email.String
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
