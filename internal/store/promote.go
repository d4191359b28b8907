// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"studiegids/internal/models"
)

// Promote migrates an active pending record's content onto its approved
// original in one transaction: summaries and credits are copied, objectives
// and tag links are replaced wholesale, and the pending record flips to
// archived. The pending record's own rows are never deleted, so the proposal
// remains auditable. Any failure leaves both records untouched.
func (s *CourseStore) Promote(ctx context.Context, pendingCode string) error {
	code := models.OriginalCode(pendingCode)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("promote begin: %w", err)
	}
	defer tx.Rollback()

	if err := lockCourse(ctx, tx, code); err != nil {
		return err
	}

	var pendingExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM courses WHERE z_code = $1 AND status = $2)
	`, pendingCode, models.CourseStatusPending).Scan(&pendingExists)
	if err != nil {
		return fmt.Errorf("promote pending lookup: %w", err)
	}
	if !pendingExists {
		return fmt.Errorf("%w: %s", ErrPendingNotFound, pendingCode)
	}

	var approvedExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM courses WHERE z_code = $1 AND status = $2)
	`, code, models.CourseStatusApproved).Scan(&approvedExists)
	if err != nil {
		return fmt.Errorf("promote approved lookup: %w", err)
	}
	if !approvedExists {
		return fmt.Errorf("%w: %s", ErrApprovedNotFound, code)
	}

	// Copy the curated fields onto the approved record.
	_, err = tx.ExecContext(ctx, `
		UPDATE courses a SET
			summary_nl = p.summary_nl,
			summary_en = p.summary_en,
			credits    = p.credits,
			updated_at = NOW()
		FROM courses p
		WHERE a.z_code = $1 AND p.z_code = $2
	`, code, pendingCode)
	if err != nil {
		return fmt.Errorf("promote copy fields: %w", err)
	}

	// Replace the approved record's objectives with copies of the pending
	// ones. The pending rows stay in place.
	if _, err := tx.ExecContext(ctx, `DELETE FROM objectives WHERE course_z_code = $1`, code); err != nil {
		return fmt.Errorf("promote delete objectives: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO objectives (course_z_code, objective_text_nl, objective_text_en, position)
		SELECT $1, objective_text_nl, objective_text_en, position
		FROM objectives
		WHERE course_z_code = $2
	`, code, pendingCode)
	if err != nil {
		return fmt.Errorf("promote copy objectives: %w", err)
	}

	// Same for tag links.
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_tag WHERE course_z_code = $1`, code); err != nil {
		return fmt.Errorf("promote delete tags: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO course_tag (course_z_code, tag_id)
		SELECT $1, tag_id FROM course_tag WHERE course_z_code = $2
	`, code, pendingCode)
	if err != nil {
		return fmt.Errorf("promote copy tags: %w", err)
	}

	// Archive the proposal. Terminal: archived records never surface in
	// listings and never promote again.
	_, err = tx.ExecContext(ctx, `
		UPDATE courses SET status = $1, updated_at = NOW() WHERE z_code = $2
	`, models.CourseStatusArchived, pendingCode)
	if err != nil {
		return fmt.Errorf("promote archive pending: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("promote commit: %w", err)
	}
	return nil
}
