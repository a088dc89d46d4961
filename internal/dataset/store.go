package dataset

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/marden/carscout/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed cache of the integrated dataset. Importing a CSV
// once lets subsequent runs skip CSV parsing.
type Store struct {
	db     *sql.DB
	dbPath string
}

// OpenStore opens (creating if needed) the vehicle store at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure store: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the store contents with the given vehicles in one
// transaction.
func (s *Store) Import(vehicles []models.Vehicle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vehicles"); err != nil {
		return fmt.Errorf("clear vehicles: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO vehicles
		(id, make, model, year, price, mileage, safety_rating, complaint_count, reliability_score, age, depreciation_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		_, err := stmt.Exec(v.ID, v.Make, v.Model, v.Year, v.Price, v.Mileage,
			v.SafetyRating, v.ComplaintCount, v.ReliabilityScore, v.Age, v.DepreciationRate)
		if err != nil {
			return fmt.Errorf("insert vehicle %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Load returns every vehicle in the store in insertion order.
// An empty store is ErrDataUnavailable, matching the CSV loader.
func (s *Store) Load() ([]models.Vehicle, error) {
	rows, err := s.db.Query(`SELECT id, make, model, year, price, mileage,
		safety_rating, complaint_count, reliability_score, age, depreciation_rate
		FROM vehicles ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		err := rows.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Price, &v.Mileage,
			&v.SafetyRating, &v.ComplaintCount, &v.ReliabilityScore, &v.Age, &v.DepreciationRate)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}

	if len(vehicles) == 0 {
		return nil, models.ErrDataUnavailable
	}
	return vehicles, nil
}

// Count returns the number of rows in the store.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&count); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return count, nil
}

// Load reads the dataset from path, choosing the loader by extension:
// .db/.sqlite/.sqlite3 open the SQLite store, anything else parses CSV.
func Load(path string, referenceYear int, log Logger) ([]models.Vehicle, error) {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		store, err := OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load()
	default:
		return LoadCSV(path, referenceYear, log)
	}
}
