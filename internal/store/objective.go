// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"studiegids/internal/models"
)

// ObjectiveStore handles reads of course objectives. Writes always happen
// inside a course transaction (ingestion upsert, edit submission, promotion)
// through replaceObjectivesTx, never row by row.
type ObjectiveStore struct {
	db *sql.DB
}

// NewObjectiveStore creates a new ObjectiveStore with the given database connection.
func NewObjectiveStore(db *sql.DB) *ObjectiveStore {
	return &ObjectiveStore{db: db}
}

// ListByCourse returns the objectives of one course in insertion order.
func (s *ObjectiveStore) ListByCourse(code string) ([]models.Objective, error) {
	rows, err := s.db.Query(`
		SELECT id, course_z_code, objective_text_nl, objective_text_en, position, created_at
		FROM objectives
		WHERE course_z_code = $1
		ORDER BY position, id
	`, code)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	defer rows.Close()
	return collectObjectives(rows)
}

// MapByCourse returns all objectives grouped by course code, for attaching
// to a course listing in one query.
func (s *ObjectiveStore) MapByCourse() (map[string][]models.Objective, error) {
	rows, err := s.db.Query(`
		SELECT id, course_z_code, objective_text_nl, objective_text_en, position, created_at
		FROM objectives
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("map objectives: %w", err)
	}
	defer rows.Close()

	objectives, err := collectObjectives(rows)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string][]models.Objective)
	for _, o := range objectives {
		byCourse[o.CourseZCode] = append(byCourse[o.CourseZCode], o)
	}
	return byCourse, nil
}

func collectObjectives(rows *sql.Rows) ([]models.Objective, error) {
	var objectives []models.Objective
	for rows.Next() {
		var o models.Objective
		if err := rows.Scan(&o.ID, &o.CourseZCode, &o.TextNL, &o.TextEN, &o.Position, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan objective: %w", err)
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

// replaceObjectivesTx deletes every objective attached to a course code and
// inserts the given list, all within the caller's transaction. Objectives
// are always fully replaced, never partially patched. The slice index becomes
// the stored position; created_at alone cannot order rows written in the same
// transaction because NOW() is the transaction timestamp.
func replaceObjectivesTx(ctx context.Context, tx *sql.Tx, code string, objectives []models.Objective) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM objectives WHERE course_z_code = $1`, code); err != nil {
		return fmt.Errorf("delete objectives for %s: %w", code, err)
	}

	for i, o := range objectives {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO objectives (course_z_code, objective_text_nl, objective_text_en, position)
			VALUES ($1, $2, $3, $4)
		`, code, o.TextNL, o.TextEN, i)
		if err != nil {
			return fmt.Errorf("insert objective for %s: %w", code, err)
		}
	}
	return nil
}
