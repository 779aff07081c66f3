package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InquiryStore = (*InquiryRepo)(nil)

// timeLayout keeps a fixed-width fractional part so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// InquiryRepo is the SQLite implementation of the InquiryStore port interface.
type InquiryRepo struct {
	db *DB
}

// NewInquiryRepo creates a new InquiryRepo backed by the given DB.
func NewInquiryRepo(db *DB) *InquiryRepo {
	return &InquiryRepo{db: db}
}

// Create inserts a new inquiry. IDs are assigned by the caller.
func (r *InquiryRepo) Create(ctx context.Context, inquiry model.Inquiry) error {
	const query = `
		INSERT INTO inquiries (id, name, email, phone, course, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Writer.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Course,
		inquiry.Message,
		inquiry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert inquiry %s: %w", inquiry.ID, err)
	}
	return nil
}

// GetByID returns the inquiry with the given ID, or nil if none exists.
func (r *InquiryRepo) GetByID(ctx context.Context, id string) (*model.Inquiry, error) {
	const query = `
		SELECT id, name, email, phone, course, message, created_at
		FROM inquiries WHERE id = ?
	`
	inquiry, err := scanInquiry(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inquiry %s: %w", id, err)
	}
	return &inquiry, nil
}

// ListRecent returns up to limit inquiries, newest first.
func (r *InquiryRepo) ListRecent(ctx context.Context, limit int) ([]model.Inquiry, error) {
	if limit <= 0 {
		return []model.Inquiry{}, nil
	}

	const query = `
		SELECT id, name, email, phone, course, message, created_at
		FROM inquiries
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	result := []model.Inquiry{}
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		result = append(result, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return result, nil
}

// Count returns the number of stored inquiries.
func (r *InquiryRepo) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM inquiries`
	var n int
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInquiry(s scanner) (model.Inquiry, error) {
	var inquiry model.Inquiry
	var createdAt string
	if err := s.Scan(
		&inquiry.ID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.Course,
		&inquiry.Message,
		&createdAt,
	); err != nil {
		return model.Inquiry{}, err
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("parse created_at for inquiry %s: %w", inquiry.ID, err)
	}
	inquiry.CreatedAt = t
	return inquiry, nil
}

// parseTime accepts the layout written by Create as well as SQLite's own
// datetime() output, for rows inserted by hand.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
