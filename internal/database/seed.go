package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: the learning
// track profiles shown alongside the catalog and the baseline tag
// vocabulary. It is a no-op when profiles already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return fmt.Errorf("seed check profiles: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	profiles := []struct {
		name, image, route     string
		titleNL, titleEN       string
		descNL, descEN         string
	}{
		{
			name: "Artificial Intelligence", image: "profiles/ai.png", route: "/tracks/artificial-intelligence",
			titleNL: "Artificiële Intelligentie", titleEN: "Artificial Intelligence",
			descNL:  "Afstudeerrichting rond machine learning en data engineering.",
			descEN:  "Graduation track covering machine learning and data engineering.",
		},
		{
			name: "Application Development", image: "profiles/appdev.png", route: "/tracks/application-development",
			titleNL: "Applicatieontwikkeling", titleEN: "Application Development",
			descNL:  "Afstudeerrichting rond full-stack software engineering.",
			descEN:  "Graduation track covering full-stack software engineering.",
		},
	}

	for _, p := range profiles {
		_, err := db.Exec(`
			INSERT INTO profiles (name, image, route, title_nl, title_en, description_nl, description_en)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.name, p.image, p.route, p.titleNL, p.titleEN, p.descNL, p.descEN)
		if err != nil {
			return fmt.Errorf("seed insert profile %s: %w", p.name, err)
		}
	}

	// Baseline tag vocabulary used by the curated-edit workflow. Submitted
	// tag names that do not resolve against this table are skipped.
	tags := []string{"backend", "frontend", "databases", "ai", "devops", "soft-skills"}
	for _, name := range tags {
		if _, err := db.Exec(`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed insert tag %s: %w", name, err)
		}
	}

	slog.Info("database seeded", "profiles", len(profiles), "tags", len(tags))
	return nil
}
