package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"clinicms/internal/models"
	"clinicms/internal/reconcile"
)

// testSlug returns a unique slug so concurrent test runs never collide.
func testSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestDepartmentSaveTwoLevelCreate(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-create")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	// Two new sections; only the first carries cards. Ids are client
	// placeholders and must not survive into the database.
	dept := &models.Department{
		Name:   "Cardiology",
		Slug:   slug,
		Status: models.StatusDraft,
		Sections: []*models.Section{
			{
				ID: 1715000000001, IsNew: true, DisplayOrder: 0, Title: "Services",
				Cards: []*models.Card{
					{ID: 1715000000002, IsNew: true, DisplayOrder: 0, Title: "ECG"},
					{ID: 1715000000003, IsNew: true, DisplayOrder: 1, Title: "Echo"},
				},
			},
			{ID: 1715000000004, IsNew: true, DisplayOrder: 1, Title: "Team"},
		},
	}

	saved, err := s.Save(ctx, nil, dept)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if saved.ID == 0 {
		t.Fatal("expected a generated department id")
	}
	if len(saved.Sections) != 2 {
		t.Fatalf("sections: got %d, want 2", len(saved.Sections))
	}

	first, second := saved.Sections[0], saved.Sections[1]
	if first.Title != "Services" || second.Title != "Team" {
		t.Errorf("section order: got %q, %q", first.Title, second.Title)
	}
	if first.ID == 0 || second.ID == 0 {
		t.Error("expected generated section ids")
	}
	if first.ID >= 1715000000000 || second.ID >= 1715000000000 {
		t.Error("client placeholder ids must not be persisted")
	}

	// Cards must hang off their own section, not the sibling.
	if len(first.Cards) != 2 {
		t.Errorf("first section cards: got %d, want 2", len(first.Cards))
	}
	if len(second.Cards) != 0 {
		t.Errorf("second section cards: got %d, want 0", len(second.Cards))
	}
	if got := countRows(t, db, "department_section_cards", "section_id", first.ID); got != 2 {
		t.Errorf("cards under section %d: got %d, want 2", first.ID, got)
	}
}

func TestDepartmentSaveDiff(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-diff")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Radiology", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: 101, IsNew: true, DisplayOrder: 0, Title: "One"},
			{ID: 102, IsNew: true, DisplayOrder: 1, Title: "Two"},
			{ID: 103, IsNew: true, DisplayOrder: 2, Title: "Three"},
		},
	})
	if err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	keep := saved.Sections[1] // "Two"

	// Resubmit only the middle section (renamed) plus one brand new one.
	_, err = s.Save(ctx, &saved.ID, &models.Department{
		Name: "Radiology", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: keep.ID, IsNew: false, DisplayOrder: 0, Title: "Two Renamed"},
			{ID: 1715000000099, IsNew: true, DisplayOrder: 1, Title: "Four"},
		},
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	after, err := s.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(after.Sections) != 2 {
		t.Fatalf("sections after diff: got %d, want 2", len(after.Sections))
	}
	if after.Sections[0].ID != keep.ID {
		t.Errorf("kept section id: got %d, want %d", after.Sections[0].ID, keep.ID)
	}
	if after.Sections[0].Title != "Two Renamed" {
		t.Errorf("kept section title: got %q, want %q", after.Sections[0].Title, "Two Renamed")
	}
	if after.Sections[1].Title != "Four" {
		t.Errorf("new section title: got %q, want %q", after.Sections[1].Title, "Four")
	}
}

func TestDepartmentSaveFullReplace(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-replace")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Lab", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: 201, IsNew: true, DisplayOrder: 0, Title: "Old A"},
			{ID: 202, IsNew: true, DisplayOrder: 1, Title: "Old B"},
		},
	})
	if err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	// No existing sections resubmitted: both persisted rows must go.
	_, err = s.Save(ctx, &saved.ID, &models.Department{
		Name: "Lab", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{},
	})
	if err != nil {
		t.Fatalf("replace Save: %v", err)
	}

	if got := countRows(t, db, "department_sections", "department_id", saved.ID); got != 0 {
		t.Errorf("sections after full replace: got %d, want 0", got)
	}
}

func TestDepartmentSaveOrderingPreserved(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-order")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	// Submitted order C, A, B with ranks assigned from position.
	sections := []*models.Section{
		{ID: 301, IsNew: true, Title: "C"},
		{ID: 302, IsNew: true, Title: "A"},
		{ID: 303, IsNew: true, Title: "B"},
	}
	reconcile.Normalize(sections)

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Ordering", Slug: slug, Status: models.StatusDraft,
		Sections: sections,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := make([]string, len(saved.Sections))
	for i, sec := range saved.Sections {
		got[i] = sec.Title
		if sec.DisplayOrder != i {
			t.Errorf("section %q: display order = %d, want %d", sec.Title, sec.DisplayOrder, i)
		}
	}
	if got[0] != "C" || got[1] != "A" || got[2] != "B" {
		t.Errorf("reload order: got %v, want [C A B]", got)
	}
}

func TestDepartmentRoundTripIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-roundtrip")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Round Trip", Slug: slug, Status: models.StatusPublished,
		Sections: []*models.Section{
			{ID: 401, IsNew: true, DisplayOrder: 0, Title: "S1",
				Cards: []*models.Card{{ID: 402, IsNew: true, DisplayOrder: 0, Title: "K1"}}},
			{ID: 403, IsNew: true, DisplayOrder: 1, Title: "S2"},
		},
	})
	if err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	// A loaded aggregate resubmitted untouched must change nothing:
	// same ids, same counts, same order.
	loaded, err := s.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	resaved, err := s.Save(ctx, &loaded.ID, loaded)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}

	if len(resaved.Sections) != len(saved.Sections) {
		t.Fatalf("section count changed: %d -> %d", len(saved.Sections), len(resaved.Sections))
	}
	for i := range saved.Sections {
		if resaved.Sections[i].ID != saved.Sections[i].ID {
			t.Errorf("section %d id changed: %d -> %d", i, saved.Sections[i].ID, resaved.Sections[i].ID)
		}
	}
	if resaved.Sections[0].Cards[0].ID != saved.Sections[0].Cards[0].ID {
		t.Error("card id changed on no-op resave")
	}
}

func TestDepartmentSaveDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-dup")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	if _, err := s.Save(ctx, nil, &models.Department{
		Name: "First", Slug: slug, Status: models.StatusDraft,
	}); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	var before int
	db.QueryRow("SELECT COUNT(*) FROM departments").Scan(&before)

	_, err := s.Save(ctx, nil, &models.Department{
		Name: "Second", Slug: slug, Status: models.StatusDraft,
	})
	if err == nil {
		t.Fatal("expected duplicate slug error")
	}
	if !reconcile.IsDuplicate(err) {
		t.Errorf("expected duplicate save error, got %v", err)
	}

	var after int
	db.QueryRow("SELECT COUNT(*) FROM departments").Scan(&after)
	if after != before {
		t.Errorf("row count changed on failed save: %d -> %d", before, after)
	}
}

func TestDepartmentSaveAtomicRollback(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-atomic")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Before", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: 501, IsNew: true, DisplayOrder: 0, Title: "Keep"},
		},
	})
	if err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	// The empty section title violates a check constraint, so the child
	// insert fails after the root update has already executed. Nothing
	// from this save may survive.
	_, err = s.Save(ctx, &saved.ID, &models.Department{
		Name: "After", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: saved.Sections[0].ID, IsNew: false, DisplayOrder: 0, Title: "Keep"},
			{ID: 1715000000777, IsNew: true, DisplayOrder: 1, Title: ""},
		},
	})
	if err == nil {
		t.Fatal("expected failing save")
	}

	after, err := s.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if after.Name != "Before" {
		t.Errorf("root name after rollback: got %q, want %q", after.Name, "Before")
	}
	if len(after.Sections) != 1 || after.Sections[0].Title != "Keep" {
		t.Errorf("sections after rollback: got %+v, want the original single section", after.Sections)
	}
}

func TestDepartmentFindAbsent(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	d, err := s.FindByID(ctx, -1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if d != nil {
		t.Error("expected nil for absent department")
	}

	d, err = s.FindBySlug(ctx, "no-such-department-xyz")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if d != nil {
		t.Error("expected nil for absent slug")
	}
}

func TestDepartmentFindBySlugPublishedOnly(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-draftslug")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	if _, err := s.Save(ctx, nil, &models.Department{
		Name: "Draft Dept", Slug: slug, Status: models.StatusDraft,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d, err := s.FindBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if d != nil {
		t.Error("draft departments must not be visible by slug")
	}
}

func TestDepartmentDeleteCascades(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-delete")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Doomed", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: 601, IsNew: true, DisplayOrder: 0, Title: "S",
				Cards: []*models.Card{{ID: 602, IsNew: true, DisplayOrder: 0, Title: "K"}}},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	sectionID := saved.Sections[0].ID
	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := countRows(t, db, "department_sections", "department_id", saved.ID); got != 0 {
		t.Errorf("sections after delete: got %d, want 0", got)
	}
	if got := countRows(t, db, "department_section_cards", "section_id", sectionID); got != 0 {
		t.Errorf("cards after delete: got %d, want 0", got)
	}
}

func TestDepartmentStaleChildIDAccepted(t *testing.T) {
	db := testDB(t)
	s := NewDepartmentStore(db)
	ctx := context.Background()

	slug := testSlug("test-dept-stale")
	t.Cleanup(func() { cleanDepartments(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Department{
		Name: "Stale", Slug: slug, Status: models.StatusDraft,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// An is_new=false item whose id no longer exists updates zero rows;
	// the save still succeeds and the row stays gone.
	_, err = s.Save(ctx, &saved.ID, &models.Department{
		Name: "Stale", Slug: slug, Status: models.StatusDraft,
		Sections: []*models.Section{
			{ID: 999999999, IsNew: false, DisplayOrder: 0, Title: "Ghost"},
		},
	})
	if err != nil {
		t.Fatalf("stale save should succeed: %v", err)
	}

	if got := countRows(t, db, "department_sections", "department_id", saved.ID); got != 0 {
		t.Errorf("sections after stale update: got %d, want 0", got)
	}
}
