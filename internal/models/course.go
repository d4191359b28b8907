// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// PendingSuffix is appended to a course code to form the code of its
// proposed-edit shadow record.
const PendingSuffix = "_pending"

// CourseStatus represents the lifecycle state of a course record.
type CourseStatus string

const (
	// CourseStatusApproved is the single live record per logical code.
	CourseStatusApproved CourseStatus = "approved"
	// CourseStatusPending is a proposed-edit shadow record, keyed by
	// `<code>_pending`, not visible in normal listings.
	CourseStatusPending CourseStatus = "pending"
	// CourseStatusArchived is terminal. Archived records are retained for
	// audit and never surfaced to ordinary reads.
	CourseStatusArchived CourseStatus = "archived"
)

// Course represents one course in the catalog, identified by its Z-code.
// Phase and Semester are pointers because the overview page does not always
// carry a decodable icon for them.
type Course struct {
	ZCode              string       `json:"z_code"`
	CourseName         string       `json:"course_name"`
	Phase              *int         `json:"phase"`
	PhaseIsMandatory   bool         `json:"phase_is_mandatory"`
	Semester           *int         `json:"semester"`
	SummaryNL          string       `json:"summary_nl"`
	SummaryEN          string       `json:"summary_en"`
	LearningContentsNL string       `json:"learning_contents_nl"`
	LearningContentsEN string       `json:"learning_contents_en"`
	LearningTrackID    *string      `json:"learning_track_id,omitempty"`
	Programme          string       `json:"programme"`
	Language           string       `json:"language"`
	Credits            int          `json:"credits"`
	ParentCourse       string       `json:"parent_course"`
	Status             CourseStatus `json:"status"`
	ScrapedFrom        *string      `json:"scraped_from,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// IsApproved returns true if the course is the live approved record.
func (c *Course) IsApproved() bool {
	return c.Status == CourseStatusApproved
}

// PendingCode derives the code of this course's proposed-edit shadow record.
func (c *Course) PendingCode() string {
	return c.ZCode + PendingSuffix
}

// ParentCodes splits the comma-separated parent_course field into trimmed
// codes, skipping empty tokens.
func (c *Course) ParentCodes() []string {
	if strings.TrimSpace(c.ParentCourse) == "" {
		return nil
	}
	var codes []string
	for _, tok := range strings.Split(c.ParentCourse, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			codes = append(codes, tok)
		}
	}
	return codes
}

// IsPendingCode reports whether code carries the pending suffix.
func IsPendingCode(code string) bool {
	return strings.HasSuffix(code, PendingSuffix) && len(code) > len(PendingSuffix)
}

// OriginalCode strips the pending suffix from a pending code. Codes without
// the suffix are returned unchanged.
func OriginalCode(pendingCode string) string {
	return strings.TrimSuffix(pendingCode, PendingSuffix)
}
