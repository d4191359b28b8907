// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"studiegids/internal/database"
	"studiegids/internal/scrape"
	"studiegids/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "studiegids")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "studiegids")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func cleanCourses(t *testing.T, db *sql.DB, codes ...string) {
	t.Helper()
	for _, code := range codes {
		db.Exec("DELETE FROM courses WHERE z_code = $1", code)
	}
}

func overviewHTML(section string, codes ...string) string {
	var rows strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&rows, `<tr><td class="code">%s</td><td class="opleidingsonderdeel">Vak %s</td>`+
			`<td class="fase"><img src="/i/icon-fase1-m.png"></td>`+
			`<td class="sem"><img src="/i/icon-semester-1.png"></td></tr>`, code, code)
	}
	return fmt.Sprintf(`<html><body><ul><li><h3>%s</h3><table>%s</table></li></ul></body></html>`,
		section, rows.String())
}

func detailHTML(objective string) string {
	return fmt.Sprintf(`<html><body>
		<div id="tab_doelstellingen_idp100"><ul><li>%s</li></ul></div>
		<div id="tab_inhoud_200_content"><p>Inhoud van het vak.</p></div>
	</body></html>`, objective)
}

// testCatalog serves an overview page plus detail pages for the given
// codes. Codes listed in broken get 404 on every suffix variant.
func testCatalog(t *testing.T, section string, codes []string, broken ...string) *httptest.Server {
	t.Helper()

	down := make(map[string]bool)
	for _, code := range broken {
		down[code] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/overview.htm", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, overviewHTML(section, codes...))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".htm")
		code := strings.TrimSuffix(strings.TrimSuffix(name, "N"), "E")
		if down[code] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, detailHTML("De student schrijft nette code voor "+code))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testPipeline(srv *httptest.Server, courses *store.CourseStore, section string, workers int) *Pipeline {
	fetcher := scrape.NewFetcher(scrape.FetchConfig{BaseURL: srv.URL + "/"})
	return New(fetcher, courses, nil, nil, Config{
		OverviewURL: srv.URL + "/overview.htm",
		Sections:    []string{section},
		Programme:   "Toegepaste Informatica",
		Language:    "nl",
		Workers:     workers,
	})
}

func TestRunScrapesAndPersists(t *testing.T) {
	db := testDB(t)
	codes := []string{"ZB90001", "ZB90002", "ZB90003"}
	t.Cleanup(func() { cleanCourses(t, db, codes...) })

	srv := testCatalog(t, "Verplichte opleidingsonderdelen", codes)
	pipeline := testPipeline(srv, store.NewCourseStore(db), "Verplichte opleidingsonderdelen", 2)

	report, err := pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scraped != 3 || report.Failed != 0 {
		t.Errorf("report: got %+v, want {Scraped:3 Failed:0}", report)
	}

	courses := store.NewCourseStore(db)
	for _, code := range codes {
		c, err := courses.FindApproved(code)
		if err != nil {
			t.Fatalf("FindApproved(%s): %v", code, err)
		}
		if c == nil {
			t.Fatalf("course %s not persisted", code)
		}
		if c.CourseName != "Vak "+code {
			t.Errorf("course name: got %q", c.CourseName)
		}
		if c.Phase == nil || *c.Phase != 1 || !c.PhaseIsMandatory {
			t.Errorf("phase: got %+v mandatory=%v", c.Phase, c.PhaseIsMandatory)
		}
		if c.Semester == nil || *c.Semester != 1 {
			t.Errorf("semester: got %+v", c.Semester)
		}
		if c.Programme != "Toegepaste Informatica" {
			t.Errorf("programme: got %q", c.Programme)
		}
		if !strings.Contains(c.LearningContentsNL, "Inhoud van het vak.") {
			t.Errorf("learning contents: got %q", c.LearningContentsNL)
		}
		if c.ScrapedFrom == nil || !strings.HasPrefix(*c.ScrapedFrom, srv.URL) {
			t.Errorf("scraped_from: got %v", c.ScrapedFrom)
		}
	}

	objectives := store.NewObjectiveStore(db)
	list, err := objectives.ListByCourse(codes[0])
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 objective, got %d", len(list))
	}
	if want := "Schrijft nette code voor " + codes[0]; list[0].TextNL != want {
		t.Errorf("objective: got %q, want %q", list[0].TextNL, want)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := testDB(t)
	codes := []string{"ZB90011"}
	t.Cleanup(func() { cleanCourses(t, db, codes...) })

	srv := testCatalog(t, "Verplichte opleidingsonderdelen", codes)
	pipeline := testPipeline(srv, store.NewCourseStore(db), "Verplichte opleidingsonderdelen", 1)

	for i := 0; i < 2; i++ {
		if _, err := pipeline.Run(context.Background()); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM courses WHERE z_code = $1", codes[0]).Scan(&count); err != nil {
		t.Fatalf("count courses: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 course row after re-scrape, got %d", count)
	}

	list, err := store.NewObjectiveStore(db).ListByCourse(codes[0])
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 objective after re-scrape, got %d", len(list))
	}
}

func TestRunCountsFailuresWithoutAborting(t *testing.T) {
	db := testDB(t)
	codes := []string{"ZB90021", "ZB90022", "ZB90023"}
	t.Cleanup(func() { cleanCourses(t, db, codes...) })

	srv := testCatalog(t, "Verplichte opleidingsonderdelen", codes, "ZB90022")
	pipeline := testPipeline(srv, store.NewCourseStore(db), "Verplichte opleidingsonderdelen", 2)

	report, err := pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scraped != 2 || report.Failed != 1 {
		t.Errorf("report: got %+v, want {Scraped:2 Failed:1}", report)
	}

	courses := store.NewCourseStore(db)
	if c, _ := courses.FindApproved("ZB90022"); c != nil {
		t.Error("broken course should not be persisted")
	}
	if c, _ := courses.FindApproved("ZB90021"); c == nil {
		t.Error("healthy course missing despite sibling failure")
	}
}

func TestRunOverviewFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	pipeline := testPipeline(srv, nil, "Verplichte opleidingsonderdelen", 1)

	_, err := pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when overview fetch fails")
	}
	if !strings.Contains(err.Error(), "fetch overview") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	db := testDB(t)
	codes := []string{"ZB90031", "ZB90032"}
	t.Cleanup(func() { cleanCourses(t, db, codes...) })

	blocked := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/overview.htm", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, overviewHTML("Verplichte opleidingsonderdelen", codes...))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		<-blocked
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		close(blocked)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	pipeline := testPipeline(srv, store.NewCourseStore(db), "Verplichte opleidingsonderdelen", 1)

	done := make(chan error, 1)
	go func() {
		_, err := pipeline.Run(ctx)
		done <- err
	}()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCollectRowsDeduplicatesAcrossSections(t *testing.T) {
	html := `<html><body><ul>
		<li><h3>Verplichte opleidingsonderdelen</h3><table>
			<tr><td class="code">Z1</td><td class="opleidingsonderdeel">Een</td></tr>
			<tr><td class="code">Z2</td><td class="opleidingsonderdeel">Twee</td></tr>
		</table></li>
		<li><h3>Application Development</h3><table>
			<tr><td class="code">Z2</td><td class="opleidingsonderdeel">Twee</td></tr>
			<tr><td class="code">Z3</td><td class="opleidingsonderdeel">Drie</td></tr>
		</table></li>
	</ul></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)

	fetcher := scrape.NewFetcher(scrape.FetchConfig{BaseURL: srv.URL + "/"})
	pipeline := New(fetcher, nil, nil, nil, Config{
		OverviewURL: srv.URL + "/overview.htm",
		Sections:    []string{"Verplichte opleidingsonderdelen", "Application Development"},
	})

	page, err := fetcher.FetchURL(context.Background(), srv.URL+"/overview.htm")
	if err != nil {
		t.Fatalf("FetchURL: %v", err)
	}

	rows := pipeline.collectRows(page)
	if len(rows) != 3 {
		t.Fatalf("expected 3 unique rows, got %d", len(rows))
	}
	want := []string{"Z1", "Z2", "Z3"}
	for i, row := range rows {
		if row.ZCode != want[i] {
			t.Errorf("row %d: got %q, want %q", i, row.ZCode, want[i])
		}
	}
}

func TestNewAppliesDefaultWorkers(t *testing.T) {
	p := New(nil, nil, nil, nil, Config{})
	if p.cfg.Workers != DefaultWorkers {
		t.Errorf("workers: got %d, want %d", p.cfg.Workers, DefaultWorkers)
	}
}
