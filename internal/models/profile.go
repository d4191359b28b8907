// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a presentational learning-track entity shown alongside the
// catalog. Profiles are read-only from this service's perspective; they are
// seeded once and never touched by the ingestion or edit workflows.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	Route         string    `json:"route"`
	TitleNL       string    `json:"title_nl"`
	TitleEN       string    `json:"title_en"`
	DescriptionNL string    `json:"description_nl"`
	DescriptionEN string    `json:"description_en"`
	CreatedAt     time.Time `json:"created_at"`
}
