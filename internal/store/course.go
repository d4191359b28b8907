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

// courseColumns is the column list shared by every course query.
const courseColumns = `z_code, course_name, phase, phase_is_mandatory, semester,
	summary_nl, summary_en, learning_contents_nl, learning_contents_en,
	learning_track_id, programme, language, credits, parent_course, status,
	scraped_from, created_at, updated_at`

// CourseStore handles all course-related database operations, including the
// reconciliation logic of the ingestion batch and the edit/promotion
// lifecycle.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore creates a new CourseStore with the given database connection.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ZCode, &c.CourseName, &c.Phase, &c.PhaseIsMandatory, &c.Semester,
		&c.SummaryNL, &c.SummaryEN, &c.LearningContentsNL, &c.LearningContentsEN,
		&c.LearningTrackID, &c.Programme, &c.Language, &c.Credits, &c.ParentCourse,
		&c.Status, &c.ScrapedFrom, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindByCode retrieves a course by its exact code, regardless of status.
// Returns nil if not found.
func (s *CourseStore) FindByCode(code string) (*models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(
		`SELECT `+courseColumns+` FROM courses WHERE z_code = $1`, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return c, nil
}

// FindApproved retrieves the approved course for a logical code.
// Returns nil if not found.
func (s *CourseStore) FindApproved(code string) (*models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(
		`SELECT `+courseColumns+` FROM courses WHERE z_code = $1 AND status = $2`,
		code, models.CourseStatusApproved))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find approved course: %w", err)
	}
	return c, nil
}

// FindPendingFor retrieves the active pending record for a logical code.
// Archived records never match. Returns nil if not found.
func (s *CourseStore) FindPendingFor(code string) (*models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(
		`SELECT `+courseColumns+` FROM courses WHERE z_code = $1 AND status = $2`,
		code+models.PendingSuffix, models.CourseStatusPending))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pending course: %w", err)
	}
	return c, nil
}

// ListApproved returns all approved courses, mandatory courses first, then
// by code. Pending and archived records are never included.
func (s *CourseStore) ListApproved() ([]models.Course, error) {
	rows, err := s.db.Query(`
		SELECT `+courseColumns+`
		FROM courses
		WHERE status = $1
		ORDER BY phase_is_mandatory DESC, z_code ASC
	`, models.CourseStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Upsert inserts or refreshes a course from an ingestion batch and replaces
// its objectives in the same transaction. The course keeps approved status;
// a re-scrape never touches pending or archived shadow records because their
// derived codes cannot collide with real Z-codes. Operator-maintained fields
// (summaries, credits, parent references) are not overwritten on conflict.
func (s *CourseStore) Upsert(ctx context.Context, c *models.Course, objectives []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert course begin: %w", err)
	}
	defer tx.Rollback()

	if err := lockCourse(ctx, tx, c.ZCode); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (z_code, course_name, phase, phase_is_mandatory, semester,
		                     learning_contents_nl, programme, language, credits,
		                     parent_course, status, scraped_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (z_code) DO UPDATE SET
			course_name          = EXCLUDED.course_name,
			phase                = EXCLUDED.phase,
			phase_is_mandatory   = EXCLUDED.phase_is_mandatory,
			semester             = EXCLUDED.semester,
			learning_contents_nl = EXCLUDED.learning_contents_nl,
			scraped_from         = EXCLUDED.scraped_from,
			updated_at           = NOW()
	`, c.ZCode, c.CourseName, c.Phase, c.PhaseIsMandatory, c.Semester,
		c.LearningContentsNL, c.Programme, c.Language, c.Credits,
		c.ParentCourse, models.CourseStatusApproved, c.ScrapedFrom)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", c.ZCode, err)
	}

	if err := replaceObjectivesTx(ctx, tx, c.ZCode, toObjectives(c.ZCode, objectives)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert course commit: %w", err)
	}
	return nil
}

// lockCourse takes a transaction-scoped advisory lock on a logical course
// code, serializing concurrent writes against the same code so the
// delete-then-reinsert invariant for objectives and tags holds.
func lockCourse(ctx context.Context, tx *sql.Tx, code string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, models.OriginalCode(code)); err != nil {
		return fmt.Errorf("lock course %s: %w", code, err)
	}
	return nil
}

func toObjectives(code string, texts []string) []models.Objective {
	objectives := make([]models.Objective, 0, len(texts))
	for _, text := range texts {
		if text == "" {
			continue
		}
		objectives = append(objectives, models.Objective{CourseZCode: code, TextNL: text})
	}
	return objectives
}
