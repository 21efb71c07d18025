package repair

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for repair persistence operations.
type Repository interface {
	Create(ctx context.Context, rec *Repair) error
	List(ctx context.Context) ([]Repair, error)
	ListByCar(ctx context.Context, carID int64) ([]Repair, error)
	GetByID(ctx context.Context, id int64) (*Repair, error)
	Update(ctx context.Context, rec *Repair) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, c SearchCriteria) ([]ReportRow, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repair repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new repair and assigns its store-generated id.
func (r *SQLiteRepository) Create(ctx context.Context, rec *Repair) error {
	const query = `INSERT INTO repairs (car_id, description, cost_cents, date)
		VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		rec.CarID, rec.Description, rec.CostCents, rec.Date.Format(DateLayout))
	if err != nil {
		return fmt.Errorf("inserting repair: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading repair insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// List returns all repairs newest first, with car labels joined in.
func (r *SQLiteRepository) List(ctx context.Context) ([]Repair, error) {
	return r.list(ctx, "", nil)
}

// ListByCar returns the repair history of one car, newest first.
func (r *SQLiteRepository) ListByCar(ctx context.Context, carID int64) ([]Repair, error) {
	return r.list(ctx, "WHERE r.car_id = ?", []any{carID})
}

func (r *SQLiteRepository) list(ctx context.Context, where string, args []any) ([]Repair, error) {
	query := `SELECT r.id, r.car_id,
		c.brand || ' ' || c.model || ' (' || c.registration_number || ')',
		r.description, r.cost_cents, r.date, r.created_at, r.updated_at
		FROM repairs r LEFT JOIN cars c ON r.car_id = c.id `
	query += where + " ORDER BY r.date DESC, r.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying repairs: %w", err)
	}
	defer rows.Close()

	var repairs []Repair
	for rows.Next() {
		rec, err := scanRepairRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning repair row: %w", err)
		}
		repairs = append(repairs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating repair rows: %w", err)
	}
	return repairs, nil
}

// GetByID returns a single repair by ID, with the car label joined in.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Repair, error) {
	const query = `SELECT r.id, r.car_id,
		c.brand || ' ' || c.model || ' (' || c.registration_number || ')',
		r.description, r.cost_cents, r.date, r.created_at, r.updated_at
		FROM repairs r LEFT JOIN cars c ON r.car_id = c.id
		WHERE r.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanRepair(row)
}

// Update updates an existing repair record.
func (r *SQLiteRepository) Update(ctx context.Context, rec *Repair) error {
	const query = `UPDATE repairs SET car_id = ?, description = ?, cost_cents = ?,
		date = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		rec.CarID, rec.Description, rec.CostCents, rec.Date.Format(DateLayout), rec.ID)
	if err != nil {
		return fmt.Errorf("updating repair %d: %w", rec.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRepairNotFound
	}
	return nil
}

// Delete removes a single repair by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM repairs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting repair %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRepairNotFound
	}
	return nil
}

// Search runs a report query over the repair history. Every filter in
// the criteria is optional; set filters are appended as parameterized
// AND predicates. Rows come back newest first.
func (r *SQLiteRepository) Search(ctx context.Context, c SearchCriteria) ([]ReportRow, error) {
	query := `SELECT r.id, r.date, r.description, r.cost_cents,
		c.brand || ' ' || c.model || ' (' || c.registration_number || ')',
		o.name
		FROM repairs r
		JOIN cars c ON r.car_id = c.id
		JOIN owners o ON c.owner_id = o.id
		WHERE 1=1`
	var args []any

	if c.OwnerID > 0 {
		query += " AND o.id = ?"
		args = append(args, c.OwnerID)
	}
	if c.CarID > 0 {
		query += " AND c.id = ?"
		args = append(args, c.CarID)
	}
	if !c.DateFrom.IsZero() {
		query += " AND r.date >= ?"
		args = append(args, c.DateFrom.Format(DateLayout))
	}
	if !c.DateTo.IsZero() {
		query += " AND r.date <= ?"
		args = append(args, c.DateTo.Format(DateLayout))
	}
	if c.MinCostCents != nil {
		query += " AND r.cost_cents >= ?"
		args = append(args, *c.MinCostCents)
	}
	if c.MaxCostCents != nil {
		query += " AND r.cost_cents <= ?"
		args = append(args, *c.MaxCostCents)
	}
	query += " ORDER BY r.date DESC, r.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching repairs: %w", err)
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		var date string
		if err := rows.Scan(&row.ID, &date, &row.Description, &row.CostCents,
			&row.CarLabel, &row.OwnerName); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		row.Date = parseDate(date)
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report rows: %w", err)
	}
	return report, nil
}

// scanRepair scans a single row into a Repair (for QueryRow).
func scanRepair(row *sql.Row) (*Repair, error) {
	var rec Repair
	var carLabel sql.NullString
	var date, createdAt, updatedAt string

	err := row.Scan(&rec.ID, &rec.CarID, &carLabel, &rec.Description,
		&rec.CostCents, &date, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRepairNotFound
		}
		return nil, fmt.Errorf("scanning repair: %w", err)
	}
	rec.CarLabel = carLabel.String
	rec.Date = parseDate(date)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// scanRepairRow scans a repair from a Rows cursor.
func scanRepairRow(rows *sql.Rows) (*Repair, error) {
	var rec Repair
	var carLabel sql.NullString
	var date, createdAt, updatedAt string

	err := rows.Scan(&rec.ID, &rec.CarID, &carLabel, &rec.Description,
		&rec.CostCents, &date, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning repair row: %w", err)
	}
	rec.CarLabel = carLabel.String
	rec.Date = parseDate(date)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// parseDate parses a YYYY-MM-DD date column.
func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
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
