package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"studiegids/internal/models"
)

// testCode returns a unique course code for a test run.
func testCode(t *testing.T) string {
	t.Helper()
	return "ZT" + uuid.NewString()[:8]
}

func intPtr(v int) *int { return &v }

func TestCourseStoreUpsertAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()

	code := testCode(t)
	t.Cleanup(func() { cleanCourses(t, db, code) })

	course := &models.Course{
		ZCode:            code,
		CourseName:       "Programmeren 1",
		Phase:            intPtr(1),
		PhaseIsMandatory: true,
		Semester:         intPtr(1),
		Programme:        "Toegepaste Informatica",
		Language:         "nl",
	}

	if err := s.Upsert(ctx, course, []string{"Kan coderen in Go", "Kent SQL"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	found, err := s.FindByCode(code)
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if found == nil {
		t.Fatal("expected course, got nil")
	}
	if found.Status != models.CourseStatusApproved {
		t.Errorf("status: got %q, want approved", found.Status)
	}
	if found.Phase == nil || *found.Phase != 1 {
		t.Errorf("phase: got %v, want 1", found.Phase)
	}

	objectives, err := NewObjectiveStore(db).ListByCourse(code)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(objectives) != 2 {
		t.Fatalf("objectives: got %d, want 2", len(objectives))
	}
}

func TestCourseStoreUpsertReplacesObjectives(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()

	code := testCode(t)
	t.Cleanup(func() { cleanCourses(t, db, code) })

	course := &models.Course{ZCode: code, CourseName: "Databanken"}
	if err := s.Upsert(ctx, course, []string{"Eerste versie"}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	// A re-scrape fully replaces objectives rather than appending.
	course.CourseName = "Databanken 2"
	if err := s.Upsert(ctx, course, []string{"Tweede versie", "Nog een"}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	found, err := s.FindByCode(code)
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if found.CourseName != "Databanken 2" {
		t.Errorf("course name not refreshed: %q", found.CourseName)
	}

	objectives, err := NewObjectiveStore(db).ListByCourse(code)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(objectives) != 2 {
		t.Fatalf("objectives after re-scrape: got %d, want 2", len(objectives))
	}
	if objectives[0].TextNL != "Tweede versie" {
		t.Errorf("first objective: got %q, want %q", objectives[0].TextNL, "Tweede versie")
	}
}

func TestCourseStoreFindByCodeMissing(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)

	found, err := s.FindByCode("ZBESTAATNIET")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for missing course, got %v", found)
	}
}

func TestCourseStoreListApprovedOrderingAndVisibility(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()

	optional := testCode(t)
	mandatory := testCode(t)
	t.Cleanup(func() { cleanCourses(t, db, optional, mandatory) })

	if err := s.Upsert(ctx, &models.Course{ZCode: optional, CourseName: "Keuzevak"}, nil); err != nil {
		t.Fatalf("Upsert optional: %v", err)
	}
	if err := s.Upsert(ctx, &models.Course{ZCode: mandatory, CourseName: "Plicht", PhaseIsMandatory: true}, nil); err != nil {
		t.Fatalf("Upsert mandatory: %v", err)
	}

	// A pending shadow must never appear in the listing.
	if _, err := s.SubmitEdit(ctx, optional, EditRequest{SummaryNL: "voorstel"}); err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}

	courses, err := s.ListApproved()
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}

	var optIdx, mandIdx = -1, -1
	for i, c := range courses {
		switch c.ZCode {
		case optional:
			optIdx = i
		case mandatory:
			mandIdx = i
		}
		if c.ZCode == optional+models.PendingSuffix {
			t.Error("pending record surfaced in ListApproved")
		}
	}
	if optIdx == -1 || mandIdx == -1 {
		t.Fatalf("test courses missing from listing (opt=%d, mand=%d)", optIdx, mandIdx)
	}
	if mandIdx > optIdx {
		t.Errorf("mandatory course listed after optional: %d > %d", mandIdx, optIdx)
	}
}
