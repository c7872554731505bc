package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: one published
// department with sections and cards, one doctor with a full profile, and
// one gallery. It is a no-op when any aggregate roots already exist.
func Seed(db *sql.DB) error {
	var count int
	err := db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM departments)
		     + (SELECT COUNT(*) FROM doctors)
		     + (SELECT COUNT(*) FROM galleries)
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("seed check roots: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	if err := seedDepartment(db); err != nil {
		return err
	}
	if err := seedDoctor(db); err != nil {
		return err
	}
	if err := seedGallery(db); err != nil {
		return err
	}

	slog.Info("database seeded with sample clinic content")
	return nil
}

func seedDepartment(db *sql.DB) error {
	var deptID int64
	err := db.QueryRow(`
		INSERT INTO departments (name, slug, description, status)
		VALUES ($1, $2, $3, 'published')
		RETURNING id
	`, "Cardiology", "cardiology",
		"Diagnosis and treatment of cardiovascular conditions.",
	).Scan(&deptID)
	if err != nil {
		return fmt.Errorf("seed department: %w", err)
	}

	var sectionID int64
	err = db.QueryRow(`
		INSERT INTO department_sections (department_id, title, body, display_order)
		VALUES ($1, $2, $3, 0)
		RETURNING id
	`, deptID, "Our Services",
		"From preventive screenings to interventional procedures.",
	).Scan(&sectionID)
	if err != nil {
		return fmt.Errorf("seed section: %w", err)
	}

	cards := []struct {
		icon, title, description string
	}{
		{"heart-pulse", "ECG & Stress Testing", "Resting and exercise electrocardiography."},
		{"stethoscope", "Consultations", "Specialist appointments within one week."},
	}
	for i, c := range cards {
		_, err := db.Exec(`
			INSERT INTO department_section_cards (section_id, icon, title, description, display_order)
			VALUES ($1, $2, $3, $4, $5)
		`, sectionID, c.icon, c.title, c.description, i)
		if err != nil {
			return fmt.Errorf("seed card: %w", err)
		}
	}
	return nil
}

func seedDoctor(db *sql.DB) error {
	var doctorID int64
	err := db.QueryRow(`
		INSERT INTO doctors (name, slug, specialty, bio, status)
		VALUES ($1, $2, $3, $4, 'published')
		RETURNING id
	`, "Dr. Elena Ionescu", "elena-ionescu", "Cardiology",
		"Consultant cardiologist with 15 years of clinical practice.",
	).Scan(&doctorID)
	if err != nil {
		return fmt.Errorf("seed doctor: %w", err)
	}

	hours := []struct {
		day, start, end string
	}{
		{"Monday", "09:00", "13:00"},
		{"Wednesday", "14:00", "18:00"},
	}
	for i, h := range hours {
		_, err := db.Exec(`
			INSERT INTO doctors_appointment_hours (doctor_id, day_of_week, start_time, end_time, display_order)
			VALUES ($1, $2, $3, $4, $5)
		`, doctorID, h.day, h.start, h.end, i)
		if err != nil {
			return fmt.Errorf("seed appointment hour: %w", err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO doctors_education (doctor_id, degree, institution, year, display_order)
		VALUES ($1, $2, $3, $4, 0)
	`, doctorID, "MD", "Carol Davila University of Medicine", 2009)
	if err != nil {
		return fmt.Errorf("seed education: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO doctors_experiences (doctor_id, position, organization, start_year, display_order)
		VALUES ($1, $2, $3, $4, 0)
	`, doctorID, "Consultant Cardiologist", "Central Clinic", 2015)
	if err != nil {
		return fmt.Errorf("seed experience: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO doctors_achievements (doctor_id, title, year, display_order)
		VALUES ($1, $2, $3, 0)
	`, doctorID, "Board Certification in Interventional Cardiology", 2018)
	if err != nil {
		return fmt.Errorf("seed achievement: %w", err)
	}
	return nil
}

func seedGallery(db *sql.DB) error {
	var galleryID int64
	err := db.QueryRow(`
		INSERT INTO galleries (name, slug, description, status)
		VALUES ($1, $2, $3, 'published')
		RETURNING id
	`, "Our Clinic", "our-clinic", "A look inside our facilities.",
	).Scan(&galleryID)
	if err != nil {
		return fmt.Errorf("seed gallery: %w", err)
	}

	images := []struct {
		url, alt string
	}{
		{"/media/gallery/reception.jpg", "Reception area"},
		{"/media/gallery/consultation-room.jpg", "Consultation room"},
	}
	for i, img := range images {
		_, err := db.Exec(`
			INSERT INTO gallery_images (gallery_id, url, alt_text, display_order)
			VALUES ($1, $2, $3, $4)
		`, galleryID, img.url, img.alt, i)
		if err != nil {
			return fmt.Errorf("seed gallery image: %w", err)
		}
	}
	return nil
}
