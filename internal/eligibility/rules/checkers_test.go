// internal/eligibility/rules/checkers_test.go
package rules

import (
	"math"
	"testing"

	"admissions-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func courseNames(names ...string) []models.Course {
	courses := make([]models.Course, 0, len(names))
	for _, n := range names {
		courses = append(courses, models.Course{Name: n})
	}
	return courses
}

func fullCourseLoad() []models.Course {
	return courseNames(
		"Biology", "Chemistry", "Physics", "Mathematics", "English",
		"History", "Geography", "Art",
	)
}

func TestNormalizeGPA(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		scale    float64
		expected float64
	}{
		{"four point scale passthrough", 3.5, 4, 3.5},
		{"unset scale passthrough", 3.5, 0, 3.5},
		{"hundred point scale", 85, 100, 3.4},
		{"hundred point perfect", 100, 100, 4.0},
		{"over scale clamps to four", 110, 100, 4.0},
		{"negative coerces to zero", -2.5, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeGPA(tt.value, tt.scale), 1e-9)
		})
	}

	t.Run("NaN coerces to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, NormalizeGPA(math.NaN(), 4))
	})
}

func TestCheckGPA(t *testing.T) {
	tests := []struct {
		name       string
		studentGPA float64
		required   float64
		passed     bool
	}{
		{"above minimum passes", 3.5, 3.0, true},
		{"exactly minimum passes", 3.0, 3.0, true},
		{"just below minimum fails", 2.999, 3.0, false},
		{"zero fails", 0, 3.0, false},
		{"negative coerces to zero and fails", -1, 3.0, false},
		{"zero requirement always passes", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckGPA(tt.studentGPA, tt.required)
			assert.Equal(t, tt.passed, check.Passed)
			assert.Equal(t, tt.required, check.RequiredGPA)
		})
	}

	t.Run("NaN input fails closed", func(t *testing.T) {
		check := CheckGPA(math.NaN(), 3.0)
		assert.False(t, check.Passed)
		assert.Equal(t, 0.0, check.StudentGPA)
	})

	t.Run("infinite input fails closed", func(t *testing.T) {
		check := CheckGPA(math.Inf(1), 3.0)
		assert.False(t, check.Passed)
		assert.Equal(t, 0.0, check.StudentGPA)
	})
}

func TestCheckCourses(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name            string
		courses         []models.Course
		passed          bool
		expectedMissing []string
	}{
		{
			name:            "five mandatory plus three electives passes",
			courses:         fullCourseLoad(),
			passed:          true,
			expectedMissing: []string{},
		},
		{
			name: "eight electives without mandatory fails",
			courses: courseNames(
				"History", "Geography", "Art", "Music",
				"Drama", "Economics", "Philosophy", "Latin",
			),
			passed:          false,
			expectedMissing: []string{"Biology", "Chemistry", "Physics", "Mathematics", "English"},
		},
		{
			name: "all mandatory but only seven total fails",
			courses: courseNames(
				"Biology", "Chemistry", "Physics", "Mathematics", "English",
				"History", "Art",
			),
			passed:          false,
			expectedMissing: []string{},
		},
		{
			name: "substring match covers prefixed names",
			courses: courseNames(
				"AP Biology", "Organic Chemistry", "Advanced Physics",
				"Pure Mathematics", "English Literature",
				"History", "Geography", "Art",
			),
			passed:          true,
			expectedMissing: []string{},
		},
		{
			name: "matching is case-insensitive",
			courses: courseNames(
				"BIOLOGY", "chemistry", "pHySiCs", "MATHEMATICS", "english",
				"History", "Geography", "Art",
			),
			passed:          true,
			expectedMissing: []string{},
		},
		{
			name:            "empty course list fails with all mandatory missing",
			courses:         nil,
			passed:          false,
			expectedMissing: []string{"Biology", "Chemistry", "Physics", "Mathematics", "English"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckCourses(tt.courses, cfg)
			assert.Equal(t, tt.passed, check.Passed)
			assert.Equal(t, tt.expectedMissing, check.MissingMandatoryCourses)
			assert.Equal(t, len(tt.courses), check.TotalCourses)
			assert.Equal(t, 8, check.RequiredTotal)
		})
	}

	t.Run("code match mode ignores names", func(t *testing.T) {
		codeCfg := cfg
		codeCfg.CourseMatchMode = MatchByCode
		codeCfg.MandatoryCourses = []string{"BIO101", "CHM101"}
		codeCfg.RequiredTotalCourses = 2

		courses := []models.Course{
			{Name: "Intro Biology", Code: "bio101"},
			{Name: "Intro Chemistry", Code: "CHM101"},
		}
		check := CheckCourses(courses, codeCfg)
		assert.True(t, check.Passed)
		assert.Empty(t, check.MissingMandatoryCourses)
	})
}

func TestCheckDocuments(t *testing.T) {
	required := []models.DocumentType{
		models.DocTypeTranscript,
		models.DocTypeNationalID,
		models.DocTypePhoto,
	}

	tests := []struct {
		name            string
		approved        []models.DocumentType
		passed          bool
		expectedMissing []models.DocumentType
	}{
		{
			name:            "all required approved",
			approved:        []models.DocumentType{models.DocTypeTranscript, models.DocTypeNationalID, models.DocTypePhoto},
			passed:          true,
			expectedMissing: []models.DocumentType{},
		},
		{
			name:            "missing photo",
			approved:        []models.DocumentType{models.DocTypeTranscript, models.DocTypeNationalID},
			passed:          false,
			expectedMissing: []models.DocumentType{models.DocTypePhoto},
		},
		{
			name:            "nothing approved",
			approved:        nil,
			passed:          false,
			expectedMissing: required,
		},
		{
			name: "extra approved types are ignored",
			approved: []models.DocumentType{
				models.DocTypeTranscript, models.DocTypeNationalID,
				models.DocTypePhoto, models.DocTypeCertificate,
			},
			passed:          true,
			expectedMissing: []models.DocumentType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckDocuments(tt.approved, required)
			assert.Equal(t, tt.passed, check.Passed)
			assert.Equal(t, tt.expectedMissing, check.MissingDocuments)
		})
	}
}

func TestCheckCompleteness(t *testing.T) {
	complete := &models.Application{
		PersonalInfo: models.PersonalInfo{FirstName: "Amina", LastName: "Diallo", Email: "amina@example.com"},
		AcademicInfo: models.AcademicInfo{GPA: 3.4, Courses: courseNames("Biology")},
	}

	t.Run("complete record passes", func(t *testing.T) {
		check := CheckCompleteness(complete)
		assert.True(t, check.Passed)
		assert.Empty(t, check.MissingFields)
	})

	t.Run("missing email reported", func(t *testing.T) {
		app := *complete
		app.PersonalInfo.Email = ""
		check := CheckCompleteness(&app)
		assert.False(t, check.Passed)
		assert.Equal(t, []string{"personalInfo.email"}, check.MissingFields)
	})

	t.Run("nil application misses everything", func(t *testing.T) {
		check := CheckCompleteness(nil)
		assert.False(t, check.Passed)
		assert.Len(t, check.MissingFields, 5)
	})
}
