// Package history persists analysis reports in SQLite so repeat scans of a
// URL can be listed and compared. Persistence is best-effort: a failed save
// becomes a report error entry, never a failed analysis.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when a report id or URL has no stored entry.
var ErrNotFound = errors.New("history: report not found")

// createdAtLayout pads fractional seconds to a fixed width so the text
// ORDER BY created_at in List and LastForURL sorts chronologically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one stored report row. Report is populated by Get and LastForURL;
// List returns summary rows with Report nil.
type Entry struct {
	ID             string
	URL            string
	RiskScore      float64
	Confidence     float64
	Recommendation string
	CreatedAt      time.Time
	TextContent    string
	Report         *model.Report
}

// Store is a SQLite-backed report archive.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open creates or opens the history database at path, applying the schema
// and pragmas.
func Open(path string, logger logging.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	l := logging.OrNop(logger).With(logging.Field{Key: "component", Value: "history"})
	l.Info("history store opened", logging.Field{Key: "path", Value: path})

	return &Store{db: db, logger: l}, nil
}

// applySchema sets pragmas and creates tables.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Save stores a report and returns its generated id.
func (s *Store) Save(ctx context.Context, report *model.Report) (string, error) {
	if report == nil {
		return "", errors.New("history: nil report")
	}

	blob, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	id := uuid.NewString()
	text := ""
	url := report.AnalysisResult.URL
	if report.SiteContent != nil {
		text = report.SiteContent.TextContent
		if url == "" {
			url = report.SiteContent.URL
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, url, risk_score, confidence, recommendation, created_at, report_json, text_content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, url,
		report.AnalysisResult.RiskScore,
		report.AnalysisResult.Confidence,
		report.AnalysisResult.Recommendation,
		report.AnalysisResult.AnalysisTimestamp.UTC().Format(createdAtLayout),
		string(blob), text,
	)
	if err != nil {
		return "", fmt.Errorf("inserting report: %w", err)
	}

	s.logger.Debug("report saved",
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "url", Value: url})
	return id, nil
}

// List returns the most recent entries, newest first, without the full
// report payload.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, risk_score, confidence, recommendation, created_at
		 FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.URL, &e.RiskScore, &e.Confidence, &e.Recommendation, &created); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(createdAtLayout, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one stored report by id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, risk_score, confidence, recommendation, created_at, report_json, text_content
		 FROM reports WHERE id = ?`, id)
	return scanFull(row)
}

// LastForURL loads the most recent stored report for a URL.
func (s *Store) LastForURL(ctx context.Context, url string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, risk_score, confidence, recommendation, created_at, report_json, text_content
		 FROM reports WHERE url = ? ORDER BY created_at DESC LIMIT 1`, url)
	return scanFull(row)
}

func scanFull(row *sql.Row) (*Entry, error) {
	var e Entry
	var created, blob string
	err := row.Scan(&e.ID, &e.URL, &e.RiskScore, &e.Confidence, &e.Recommendation, &created, &blob, &e.TextContent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report row: %w", err)
	}
	e.CreatedAt, _ = time.Parse(createdAtLayout, created)

	var report model.Report
	if err := json.Unmarshal([]byte(blob), &report); err != nil {
		return nil, fmt.Errorf("decoding stored report: %w", err)
	}
	e.Report = &report
	return &e, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
