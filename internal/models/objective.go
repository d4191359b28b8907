// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Objective is a bilingual learning-outcome statement attached to exactly
// one course. The Dutch text is required; the English text is optional and
// only populated through the edit workflow.
type Objective struct {
	ID         uuid.UUID `json:"id"`
	CourseZCode string   `json:"course_z_code"`
	TextNL     string    `json:"objective_text_nl"`
	TextEN     *string   `json:"objective_text_en,omitempty"`
	// Position is the zero-based rank within the course, assigned on every
	// replace so reads return objectives in submission order.
	Position  int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
