package handlers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"clinicms/internal/models"
)

// Validation limits for aggregate payload fields.
const (
	maxNameLen        = 300
	maxSlugLen        = 300
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxBodyLen        = 100_000
	maxURLLen         = 1_000
)

// timeOfDay matches "HH:MM" in 24-hour form.
var timeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// validateRoot checks the scalar fields shared by every aggregate root and
// returns the first error found.
func validateRoot(name, slug string, status models.Status) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if status != models.StatusDraft && status != models.StatusPublished {
		return "Status must be draft or published."
	}
	return ""
}

// validateDepartment checks a department payload, sections and cards included.
func validateDepartment(d *models.Department) string {
	if msg := validateRoot(d.Name, d.Slug, d.Status); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(d.Description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	for i, sec := range d.Sections {
		if strings.TrimSpace(sec.Title) == "" {
			return fmt.Sprintf("Section %d: title is required.", i+1)
		}
		if utf8.RuneCountInString(sec.Title) > maxTitleLen {
			return fmt.Sprintf("Section %d: title is too long (max 300 characters).", i+1)
		}
		if utf8.RuneCountInString(sec.Body) > maxBodyLen {
			return fmt.Sprintf("Section %d: body is too long (max 100,000 characters).", i+1)
		}
		for j, card := range sec.Cards {
			if strings.TrimSpace(card.Title) == "" {
				return fmt.Sprintf("Section %d, card %d: title is required.", i+1, j+1)
			}
			if utf8.RuneCountInString(card.Title) > maxTitleLen {
				return fmt.Sprintf("Section %d, card %d: title is too long (max 300 characters).", i+1, j+1)
			}
		}
	}
	return ""
}

// validateDoctor checks a doctor payload and all four child collections.
func validateDoctor(d *models.Doctor) string {
	if msg := validateRoot(d.Name, d.Slug, d.Status); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(d.Bio) > maxBodyLen {
		return "Bio is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(d.PhotoURL) > maxURLLen {
		return "Photo URL is too long (max 1,000 characters)."
	}
	for i, h := range d.AppointmentHours {
		if !weekdays[h.DayOfWeek] {
			return fmt.Sprintf("Appointment hour %d: invalid day of week %q.", i+1, h.DayOfWeek)
		}
		if !timeOfDay.MatchString(h.StartTime) || !timeOfDay.MatchString(h.EndTime) {
			return fmt.Sprintf("Appointment hour %d: times must be HH:MM.", i+1)
		}
		if h.StartTime >= h.EndTime {
			return fmt.Sprintf("Appointment hour %d: start must be before end.", i+1)
		}
	}
	for i, e := range d.Education {
		if strings.TrimSpace(e.Degree) == "" {
			return fmt.Sprintf("Education %d: degree is required.", i+1)
		}
	}
	for i, e := range d.Experiences {
		if strings.TrimSpace(e.Position) == "" {
			return fmt.Sprintf("Experience %d: position is required.", i+1)
		}
		if e.EndYear != nil && *e.EndYear < e.StartYear {
			return fmt.Sprintf("Experience %d: end year precedes start year.", i+1)
		}
	}
	for i, a := range d.Achievements {
		if strings.TrimSpace(a.Title) == "" {
			return fmt.Sprintf("Achievement %d: title is required.", i+1)
		}
	}
	return ""
}

// validateGallery checks a gallery payload and its images.
func validateGallery(g *models.Gallery) string {
	if msg := validateRoot(g.Name, g.Slug, g.Status); msg != "" {
		return msg
	}
	for i, img := range g.Images {
		if strings.TrimSpace(img.URL) == "" {
			return fmt.Sprintf("Image %d: URL is required.", i+1)
		}
		if utf8.RuneCountInString(img.URL) > maxURLLen {
			return fmt.Sprintf("Image %d: URL is too long (max 1,000 characters).", i+1)
		}
	}
	return ""
}
