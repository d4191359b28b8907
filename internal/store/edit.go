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

// ObjectiveEdit is one proposed objective in an edit submission. The Dutch
// text is required, the English text optional.
type ObjectiveEdit struct {
	TextNL string  `json:"nl"`
	TextEN *string `json:"en,omitempty"`
}

// EditRequest carries the editable fields of a curated-edit submission.
// Objectives and tags are full replacements, never partial patches.
type EditRequest struct {
	SummaryNL  string          `json:"summary_nl"`
	SummaryEN  string          `json:"summary_en"`
	Credits    int             `json:"credits"`
	Objectives []ObjectiveEdit `json:"objectives"`
	Tags       []string        `json:"tags"`
}

// SubmitEdit records a proposed edit against the approved course at code as
// a pending shadow record keyed `<code>_pending`, and returns that pending
// code. Repeated submissions against the same code update the pending record
// in place; its objectives and tags are replaced wholesale every time, so
// the operation is idempotent per submission content.
func (s *CourseStore) SubmitEdit(ctx context.Context, code string, req EditRequest) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("submit edit begin: %w", err)
	}
	defer tx.Rollback()

	if err := lockCourse(ctx, tx, code); err != nil {
		return "", err
	}

	var approvedExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM courses WHERE z_code = $1 AND status = $2)
	`, code, models.CourseStatusApproved).Scan(&approvedExists)
	if err != nil {
		return "", fmt.Errorf("submit edit lookup: %w", err)
	}
	if !approvedExists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, code)
	}

	pendingCode := code + models.PendingSuffix

	var existingStatus models.CourseStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM courses WHERE z_code = $1`, pendingCode).Scan(&existingStatus)
	switch {
	case err == sql.ErrNoRows:
		// First proposal for this course: copy the immutable fields from the
		// approved original, overriding only the submitted ones.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO courses (z_code, course_name, phase, phase_is_mandatory, semester,
			                     summary_nl, summary_en, learning_contents_nl, learning_contents_en,
			                     learning_track_id, programme, language, credits, parent_course,
			                     status, scraped_from)
			SELECT $1, course_name, phase, phase_is_mandatory, semester,
			       $3, $4, learning_contents_nl, learning_contents_en,
			       learning_track_id, programme, language, $5, parent_course,
			       $6, scraped_from
			FROM courses WHERE z_code = $2 AND status = $7
		`, pendingCode, code, req.SummaryNL, req.SummaryEN, req.Credits,
			models.CourseStatusPending, models.CourseStatusApproved)
		if err != nil {
			return "", fmt.Errorf("submit edit insert pending: %w", err)
		}

	case err != nil:
		return "", fmt.Errorf("submit edit pending lookup: %w", err)

	case existingStatus == models.CourseStatusPending:
		// Active proposal: overwrite the editable fields in place.
		_, err = tx.ExecContext(ctx, `
			UPDATE courses SET summary_nl = $1, summary_en = $2, credits = $3, updated_at = NOW()
			WHERE z_code = $4
		`, req.SummaryNL, req.SummaryEN, req.Credits, pendingCode)
		if err != nil {
			return "", fmt.Errorf("submit edit update pending: %w", err)
		}

	default:
		// The previous proposal was promoted and archived. The pending code
		// is a primary key, so the row is revived as a fresh proposal with
		// the current approved fields as its base.
		_, err = tx.ExecContext(ctx, `
			UPDATE courses p SET
				course_name = a.course_name, phase = a.phase,
				phase_is_mandatory = a.phase_is_mandatory, semester = a.semester,
				summary_nl = $3, summary_en = $4,
				learning_contents_nl = a.learning_contents_nl,
				learning_contents_en = a.learning_contents_en,
				learning_track_id = a.learning_track_id, programme = a.programme,
				language = a.language, credits = $5, parent_course = a.parent_course,
				status = $6, updated_at = NOW()
			FROM courses a
			WHERE p.z_code = $1 AND a.z_code = $2 AND a.status = $7
		`, pendingCode, code, req.SummaryNL, req.SummaryEN, req.Credits,
			models.CourseStatusPending, models.CourseStatusApproved)
		if err != nil {
			return "", fmt.Errorf("submit edit revive pending: %w", err)
		}
	}

	objectives := make([]models.Objective, 0, len(req.Objectives))
	for _, o := range req.Objectives {
		if o.TextNL == "" {
			continue
		}
		objectives = append(objectives, models.Objective{
			CourseZCode: pendingCode,
			TextNL:      o.TextNL,
			TextEN:      o.TextEN,
		})
	}
	if err := replaceObjectivesTx(ctx, tx, pendingCode, objectives); err != nil {
		return "", err
	}

	tagIDs, err := resolveTagIDsTx(ctx, tx, req.Tags)
	if err != nil {
		return "", err
	}
	if err := replaceCourseTagsTx(ctx, tx, pendingCode, tagIDs); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("submit edit commit: %w", err)
	}
	return pendingCode, nil
}
