// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"studiegids/internal/models"
)

// TagStore handles the tag vocabulary and the course-tag join relation.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name ascending.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Create inserts a new tag and returns it. The name must be unique.
func (s *TagStore) Create(name string) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		INSERT INTO tags (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// MapByCourse returns the tags of every course, for attaching to a listing.
func (s *TagStore) MapByCourse() (map[string][]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT ct.course_z_code, t.id, t.name, t.created_at
		FROM course_tag ct
		JOIN tags t ON t.id = ct.tag_id
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("map tags: %w", err)
	}
	defer rows.Close()

	byCourse := make(map[string][]models.Tag)
	for rows.Next() {
		var code string
		var t models.Tag
		if err := rows.Scan(&code, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course tag: %w", err)
		}
		byCourse[code] = append(byCourse[code], t)
	}
	return byCourse, rows.Err()
}

// ListByCourse returns the tags attached to one course, name ascending.
func (s *TagStore) ListByCourse(code string) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.created_at
		FROM course_tag ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.course_z_code = $1
		ORDER BY t.name ASC
	`, code)
	if err != nil {
		return nil, fmt.Errorf("list course tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// resolveTagIDsTx resolves tag names to identifiers inside a transaction.
// Names that do not exist in the vocabulary are skipped with a warning, not
// an error: an operator typo must not fail the whole submission.
func resolveTagIDsTx(ctx context.Context, tx *sql.Tx, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = $1`, name).Scan(&id)
		if err == sql.ErrNoRows {
			slog.Warn("unknown tag name skipped", "tag", name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// replaceCourseTagsTx deletes every tag link of a course and inserts the
// given tag IDs, all within the caller's transaction.
func replaceCourseTagsTx(ctx context.Context, tx *sql.Tx, code string, tagIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_tag WHERE course_z_code = $1`, code); err != nil {
		return fmt.Errorf("delete course tags for %s: %w", code, err)
	}

	for _, id := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO course_tag (course_z_code, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, code, id)
		if err != nil {
			return fmt.Errorf("insert course tag for %s: %w", code, err)
		}
	}
	return nil
}
