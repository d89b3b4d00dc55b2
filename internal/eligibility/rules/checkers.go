// internal/eligibility/rules/checkers.go
package rules

import (
	"math"
	"strings"

	"admissions-workers/internal/models"
)

// coerceGPA turns malformed numeric input into zero so a bad GPA can never
// pass a threshold.
func coerceGPA(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// NormalizeGPA converts a GPA reported on an arbitrary scale onto the
// canonical 0-4.0 scale. A scale of zero (unset) or 4 passes through.
func NormalizeGPA(value, scale float64) float64 {
	value = coerceGPA(value)
	if scale <= 0 || scale == 4 {
		return value
	}
	normalized := value * 4.0 / scale
	if normalized > 4.0 {
		normalized = 4.0
	}
	return normalized
}

// CheckGPA compares the applicant GPA against the program minimum. The raw
// float comparison is deliberate: 2.999 does not round up to 3.0.
func CheckGPA(studentGPA, requiredGPA float64) models.GPACheck {
	student := coerceGPA(studentGPA)
	required := coerceGPA(requiredGPA)
	return models.GPACheck{
		Passed:      student >= required,
		StudentGPA:  student,
		RequiredGPA: required,
	}
}

// CheckCourses verifies course coverage: the total count must meet the
// threshold AND every mandatory course must be matched. Both conditions are
// required; eight electives do not cover a missing mandatory course.
func CheckCourses(courses []models.Course, cfg EvaluationConfig) models.CoursesCheck {
	total := len(courses)
	missing := missingMandatory(courses, cfg.MandatoryCourses, cfg.CourseMatchMode)

	return models.CoursesCheck{
		Passed:                  total >= cfg.RequiredTotalCourses && len(missing) == 0,
		TotalCourses:            total,
		RequiredTotal:           cfg.RequiredTotalCourses,
		MissingMandatoryCourses: missing,
	}
}

// missingMandatory returns the mandatory entries not matched by any submitted
// course, preserving the configured order.
func missingMandatory(courses []models.Course, mandatory []string, mode CourseMatchMode) []string {
	missing := []string{}
	for _, want := range mandatory {
		if !courseMatched(courses, want, mode) {
			missing = append(missing, want)
		}
	}
	return missing
}

func courseMatched(courses []models.Course, want string, mode CourseMatchMode) bool {
	for _, c := range courses {
		switch mode {
		case MatchByCode:
			if strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(want)) {
				return true
			}
		default:
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(want)) {
				return true
			}
		}
	}
	return false
}

// CheckDocuments verifies that every required document type has at least one
// approved upload. Pending or rejected documents do not count.
func CheckDocuments(approved, required []models.DocumentType) models.DocumentsCheck {
	approvedSet := make(map[models.DocumentType]bool, len(approved))
	for _, t := range approved {
		approvedSet[t] = true
	}

	missing := []models.DocumentType{}
	for _, want := range required {
		if !approvedSet[want] {
			missing = append(missing, want)
		}
	}

	return models.DocumentsCheck{
		Passed:           len(missing) == 0,
		MissingDocuments: missing,
	}
}

// completenessFields are the core record fields the weighted policy credits.
var completenessFields = []struct {
	name    string
	present func(app *models.Application) bool
}{
	{"personalInfo.firstName", func(a *models.Application) bool { return a.PersonalInfo.FirstName != "" }},
	{"personalInfo.lastName", func(a *models.Application) bool { return a.PersonalInfo.LastName != "" }},
	{"personalInfo.email", func(a *models.Application) bool { return a.PersonalInfo.Email != "" }},
	{"academicInfo.gpa", func(a *models.Application) bool { return a.AcademicInfo.GPA > 0 }},
	{"academicInfo.courses", func(a *models.Application) bool { return len(a.AcademicInfo.Courses) > 0 }},
}

// CheckCompleteness reports whether the core personal and academic fields of
// the application record are filled in.
func CheckCompleteness(app *models.Application) models.CompletenessCheck {
	if app == nil {
		missing := make([]string, 0, len(completenessFields))
		for _, f := range completenessFields {
			missing = append(missing, f.name)
		}
		return models.CompletenessCheck{Passed: false, MissingFields: missing}
	}

	missing := []string{}
	for _, f := range completenessFields {
		if !f.present(app) {
			missing = append(missing, f.name)
		}
	}

	return models.CompletenessCheck{
		Passed:        len(missing) == 0,
		MissingFields: missing,
	}
}
