package box

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// defaultLogLimit is the number of sensor log rows returned when the caller
// does not specify a limit.
const defaultLogLimit = 100

// Repository defines the interface for box and sensor log persistence.
type Repository interface {
	// Create inserts a new box with all sensor fields zeroed.
	// The generated ID is written back to b.
	Create(ctx context.Context, b *Box) error

	// ListByOwner returns all boxes with the given owner id, never nil.
	ListByOwner(ctx context.Context, ownerID int64) ([]Box, error)

	// InsertLogEntry appends one sensor reading. Used by the external
	// ingestion writer; the mobile API never calls it.
	InsertLogEntry(ctx context.Context, e *SensorLogEntry) error

	// LogEntries returns raw sensor_log rows for a box, newest first,
	// capped to limit (default 100 when limit <= 0). Rows are returned as
	// column-name keyed maps so every stored column passes through to the
	// client verbatim.
	LogEntries(ctx context.Context, boxID int64, limit int) ([]map[string]any, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed box repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new box row. Sensor fields are explicitly zeroed rather
// than left to column defaults so the inserted row matches the view the
// handler returns without a re-read.
func (r *SQLiteRepository) Create(ctx context.Context, b *Box) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO boxes (owner_id, name, plant, szarassag, feny, ho, para, legnyomas, vizszint)
		 VALUES (?, ?, ?, 0, 0, 0, 0, 0, 0)`,
		b.OwnerID, b.Name, nullString(b.Plant),
	)
	if err != nil {
		return fmt.Errorf("creating box: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new box id: %w", err)
	}
	b.ID = id

	b.Moisture, b.Light = 0, 0
	b.Temperature, b.Humidity, b.Pressure, b.WaterLevel = 0, 0, 0, 0

	return nil
}

// ListByOwner returns all boxes owned by the given user id.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Box, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT box_id, owner_id, name, plant, szarassag, feny, ho, para, legnyomas, vizszint
		 FROM boxes WHERE owner_id = ?`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing boxes: %w", err)
	}
	defer rows.Close()

	boxes := []Box{}
	for rows.Next() {
		var b Box
		var plant sql.NullString
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &plant,
			&b.Moisture, &b.Light, &b.Temperature, &b.Humidity, &b.Pressure, &b.WaterLevel); err != nil {
			return nil, fmt.Errorf("scanning box: %w", err)
		}
		if plant.Valid {
			b.Plant = plant.String
		}
		boxes = append(boxes, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boxes: %w", err)
	}

	return boxes, nil
}

// InsertLogEntry appends one sensor reading for a box.
func (r *SQLiteRepository) InsertLogEntry(ctx context.Context, e *SensorLogEntry) error {
	if e.BoxID == 0 {
		return fmt.Errorf("box id is required")
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sensor_log (box_id, timestamp, szarassag, feny, ho, para, legnyomas, vizszint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BoxID, ts.UTC().Format(time.RFC3339),
		e.Moisture, e.Light, e.Temperature, e.Humidity, e.Pressure, e.WaterLevel,
	)
	if err != nil {
		return fmt.Errorf("inserting sensor log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new log id: %w", err)
	}
	e.ID = id
	e.Timestamp = ts

	return nil
}

// LogEntries returns sensor_log rows for a box as raw column maps, newest
// first. The map form keeps the response byte-compatible with clients that
// consume whatever columns the table happens to carry.
func (r *SQLiteRepository) LogEntries(ctx context.Context, boxID int64, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM sensor_log WHERE box_id = ? ORDER BY timestamp DESC LIMIT ?",
		boxID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sensor log: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading sensor log columns: %w", err)
	}

	entries := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning sensor log row: %w", err)
		}

		entry := make(map[string]any, len(columns))
		for i, col := range columns {
			entry[col] = normaliseValue(values[i])
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensor log: %w", err)
	}

	return entries, nil
}

// normaliseValue converts driver-level values into JSON-friendly ones.
// TEXT columns may scan as []byte, which encoding/json would base64-encode.
func normaliseValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

// nullString maps "" to NULL for nullable text columns.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
