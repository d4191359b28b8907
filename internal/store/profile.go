// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"studiegids/internal/models"
)

// ProfileStore reads the presentational learning-track profiles. Profiles
// are seeded data; this store never writes them.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// List returns all profiles ordered by name.
func (s *ProfileStore) List() ([]models.Profile, error) {
	rows, err := s.db.Query(`
		SELECT id, name, image, route, title_nl, title_en, description_nl, description_en, created_at
		FROM profiles
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Image, &p.Route,
			&p.TitleNL, &p.TitleEN, &p.DescriptionNL, &p.DescriptionEN, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
