package store

import (
	"context"
	"testing"

	"clinicms/internal/models"
	"clinicms/internal/reconcile"
)

func TestDoctorSaveCreateAllCollections(t *testing.T) {
	db := testDB(t)
	s := NewDoctorStore(db)
	ctx := context.Background()

	slug := testSlug("test-doctor-create")
	t.Cleanup(func() { cleanDoctors(t, db, slug) })

	endYear := 2020
	saved, err := s.Save(ctx, nil, &models.Doctor{
		Name: "Dr. Test", Slug: slug, Specialty: "Cardiology",
		Status: models.StatusPublished,
		AppointmentHours: []*models.AppointmentHour{
			{ID: 1, IsNew: true, DisplayOrder: 0, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "12:00"},
			{ID: 2, IsNew: true, DisplayOrder: 1, DayOfWeek: "Friday", StartTime: "14:00", EndTime: "18:00"},
		},
		Education: []*models.Education{
			{ID: 3, IsNew: true, DisplayOrder: 0, Degree: "MD", Institution: "UMF", Year: 2005},
		},
		Experiences: []*models.Experience{
			{ID: 4, IsNew: true, DisplayOrder: 0, Position: "Resident", Organization: "County Hospital", StartYear: 2005, EndYear: &endYear},
		},
		Achievements: []*models.Achievement{
			{ID: 5, IsNew: true, DisplayOrder: 0, Title: "Best Paper", Year: 2018},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(saved.AppointmentHours) != 2 {
		t.Errorf("appointment hours: got %d, want 2", len(saved.AppointmentHours))
	}
	if saved.AppointmentHours[0].DayOfWeek != "Monday" {
		t.Errorf("first hour day: got %q, want Monday", saved.AppointmentHours[0].DayOfWeek)
	}
	if len(saved.Education) != 1 || len(saved.Experiences) != 1 || len(saved.Achievements) != 1 {
		t.Errorf("collection sizes: education=%d experiences=%d achievements=%d, want 1 each",
			len(saved.Education), len(saved.Experiences), len(saved.Achievements))
	}
	if saved.Experiences[0].EndYear == nil || *saved.Experiences[0].EndYear != 2020 {
		t.Error("experience end year lost on save")
	}
}

func TestDoctorSaveDiffOneCollectionLeavesOthersAlone(t *testing.T) {
	db := testDB(t)
	s := NewDoctorStore(db)
	ctx := context.Background()

	slug := testSlug("test-doctor-diff")
	t.Cleanup(func() { cleanDoctors(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Doctor{
		Name: "Dr. Diff", Slug: slug, Status: models.StatusDraft,
		AppointmentHours: []*models.AppointmentHour{
			{ID: 11, IsNew: true, DisplayOrder: 0, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "12:00"},
			{ID: 12, IsNew: true, DisplayOrder: 1, DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "12:00"},
		},
		Achievements: []*models.Achievement{
			{ID: 13, IsNew: true, DisplayOrder: 0, Title: "Award", Year: 2019},
		},
	})
	if err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	// Drop Monday, keep Tuesday moved to front, add Thursday. The
	// achievements collection is resubmitted unchanged.
	tuesday := saved.AppointmentHours[1]
	loadedAchievements := saved.Achievements

	after, err := s.Save(ctx, &saved.ID, &models.Doctor{
		Name: "Dr. Diff", Slug: slug, Status: models.StatusDraft,
		AppointmentHours: []*models.AppointmentHour{
			{ID: tuesday.ID, IsNew: false, DisplayOrder: 0, DayOfWeek: "Tuesday", StartTime: "10:00", EndTime: "13:00"},
			{ID: 1715000000021, IsNew: true, DisplayOrder: 1, DayOfWeek: "Thursday", StartTime: "09:00", EndTime: "12:00"},
		},
		Achievements: loadedAchievements,
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if len(after.AppointmentHours) != 2 {
		t.Fatalf("hours after diff: got %d, want 2", len(after.AppointmentHours))
	}
	if after.AppointmentHours[0].ID != tuesday.ID {
		t.Errorf("kept hour id: got %d, want %d", after.AppointmentHours[0].ID, tuesday.ID)
	}
	if after.AppointmentHours[0].StartTime != "10:00" {
		t.Errorf("kept hour start: got %q, want 10:00", after.AppointmentHours[0].StartTime)
	}
	if after.AppointmentHours[1].DayOfWeek != "Thursday" {
		t.Errorf("new hour day: got %q, want Thursday", after.AppointmentHours[1].DayOfWeek)
	}

	if len(after.Achievements) != 1 || after.Achievements[0].ID != loadedAchievements[0].ID {
		t.Error("achievements should survive untouched")
	}
}

func TestDoctorSaveDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewDoctorStore(db)
	ctx := context.Background()

	slug := testSlug("test-doctor-dup")
	t.Cleanup(func() { cleanDoctors(t, db, slug) })

	if _, err := s.Save(ctx, nil, &models.Doctor{Name: "Dr. One", Slug: slug, Status: models.StatusDraft}); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	_, err := s.Save(ctx, nil, &models.Doctor{Name: "Dr. Two", Slug: slug, Status: models.StatusDraft})
	if !reconcile.IsDuplicate(err) {
		t.Errorf("expected duplicate save error, got %v", err)
	}
}

func TestDoctorRoundTripIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewDoctorStore(db)
	ctx := context.Background()

	slug := testSlug("test-doctor-roundtrip")
	t.Cleanup(func() { cleanDoctors(t, db, slug) })

	saved, err := s.Save(ctx, nil, &models.Doctor{
		Name: "Dr. Loop", Slug: slug, Status: models.StatusDraft,
		Education: []*models.Education{
			{ID: 31, IsNew: true, DisplayOrder: 0, Degree: "MD", Institution: "UMF", Year: 2001},
			{ID: 32, IsNew: true, DisplayOrder: 1, Degree: "PhD", Institution: "UMF", Year: 2008},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	resaved, err := s.Save(ctx, &loaded.ID, loaded)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}

	if len(resaved.Education) != 2 {
		t.Fatalf("education after resave: got %d, want 2", len(resaved.Education))
	}
	for i := range loaded.Education {
		if resaved.Education[i].ID != loaded.Education[i].ID {
			t.Errorf("education %d id changed on no-op resave", i)
		}
	}
}
