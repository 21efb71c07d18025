package car

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for car persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Car) error
	List(ctx context.Context) ([]Car, error)
	GetByID(ctx context.Context, id int64) (*Car, error)
	Update(ctx context.Context, c *Car) error
	Delete(ctx context.Context, id int64) error
	CountRepairs(ctx context.Context, id int64) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed car repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new car and assigns its store-generated id.
// A NOCASE UNIQUE violation on the registration number maps to
// ErrDuplicateRegistration; the schema is the authority for uniqueness.
func (r *SQLiteRepository) Create(ctx context.Context, c *Car) error {
	const query = `INSERT INTO cars (registration_number, brand, model, year, owner_id)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		c.RegistrationNumber, c.Brand, c.Model, c.Year, c.OwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRegistration, c.RegistrationNumber)
		}
		return fmt.Errorf("inserting car %s: %w", c.RegistrationNumber, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading car insert id: %w", err)
	}
	c.ID = id
	return nil
}

// List returns all cars in insertion order, with owner names joined in.
func (r *SQLiteRepository) List(ctx context.Context) ([]Car, error) {
	const query = `SELECT c.id, c.registration_number, c.brand, c.model, c.year,
		c.owner_id, o.name, c.created_at, c.updated_at
		FROM cars c LEFT JOIN owners o ON c.owner_id = o.id
		ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying cars: %w", err)
	}
	defer rows.Close()

	var cars []Car
	for rows.Next() {
		c, err := scanCarRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning car row: %w", err)
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating car rows: %w", err)
	}
	return cars, nil
}

// GetByID returns a single car by ID, with the owner name joined in.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Car, error) {
	const query = `SELECT c.id, c.registration_number, c.brand, c.model, c.year,
		c.owner_id, o.name, c.created_at, c.updated_at
		FROM cars c LEFT JOIN owners o ON c.owner_id = o.id
		WHERE c.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanCar(row)
}

// Update updates an existing car record.
func (r *SQLiteRepository) Update(ctx context.Context, c *Car) error {
	const query = `UPDATE cars SET registration_number = ?, brand = ?, model = ?,
		year = ?, owner_id = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		c.RegistrationNumber, c.Brand, c.Model, c.Year, c.OwnerID, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRegistration, c.RegistrationNumber)
		}
		return fmt.Errorf("updating car %d: %w", c.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// Delete removes a single car by ID.
// Returns ErrCarHasRepairs if repair records still reference this car.
// Returns ErrCarNotFound if the car does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	// Check for referencing repairs before touching the row.
	count, err := r.CountRepairs(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCarHasRepairs
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting car %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// CountRepairs returns the number of repair records referencing this car.
func (r *SQLiteRepository) CountRepairs(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM repairs WHERE car_id = ?", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting repairs for car %d: %w", id, err)
	}
	return count, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// scanCar scans a single row into a Car (for QueryRow).
func scanCar(row *sql.Row) (*Car, error) {
	var c Car
	var ownerName sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.RegistrationNumber, &c.Brand, &c.Model, &c.Year,
		&c.OwnerID, &ownerName, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("scanning car: %w", err)
	}
	c.OwnerName = ownerName.String
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

// scanCarRow scans a car from a Rows cursor.
func scanCarRow(rows *sql.Rows) (*Car, error) {
	var c Car
	var ownerName sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&c.ID, &c.RegistrationNumber, &c.Brand, &c.Model, &c.Year,
		&c.OwnerID, &ownerName, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning car row: %w", err)
	}
	c.OwnerName = ownerName.String
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
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
