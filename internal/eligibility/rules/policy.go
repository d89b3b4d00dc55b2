// internal/eligibility/rules/policy.go
package rules

import (
	"fmt"
	"math"
	"strings"

	"admissions-workers/internal/models"
)

// Reason strings are part of the stored record; keep them stable.
const reasonAllCriteriaMet = "All eligibility criteria met"

// EvaluationPolicy turns an application, its program requirements, and the
// approved document types into a verdict. Policies are pure: no I/O, no
// errors, malformed input coerces rather than failing.
type EvaluationPolicy interface {
	Evaluate(app *models.Application, req models.Requirements, approved []models.DocumentType) *models.Verdict
	Name() string
}

// SelectPolicy returns the policy configured under the given name, falling
// back to the weighted policy.
func SelectPolicy(name string, cfg EvaluationConfig) EvaluationPolicy {
	if name == "boolean" {
		return NewBooleanPolicy(cfg)
	}
	return NewWeightedPolicy(cfg)
}

// effective merges program requirements over the configured defaults.
func (cfg EvaluationConfig) effective(req models.Requirements) EvaluationConfig {
	out := cfg
	if req.RequiredTotal > 0 {
		out.RequiredTotalCourses = req.RequiredTotal
	}
	if len(req.RequiredCourses) > 0 {
		out.MandatoryCourses = req.RequiredCourses
	}
	if len(req.RequiredDocuments) > 0 {
		out.RequiredDocuments = req.RequiredDocuments
	}
	return out
}

// minGPA returns the program minimum on the canonical 0-4.0 scale. Programs
// may store their minimum on another scale (GPAScale), so it is normalized the
// same way the student GPA is before the two are compared.
func (cfg EvaluationConfig) minGPA(req models.Requirements) float64 {
	if req.MinGPA > 0 {
		return NormalizeGPA(req.MinGPA, req.GPAScale)
	}
	return cfg.DefaultMinGPA
}

func joinDocTypes(types []models.DocumentType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

// failureReasons builds the human-readable reason list from failed checks.
func failureReasons(gpa models.GPACheck, courses models.CoursesCheck, docs models.DocumentsCheck) []string {
	reasons := []string{}
	if !gpa.Passed {
		reasons = append(reasons, fmt.Sprintf("GPA %.2f is below minimum %.2f", gpa.StudentGPA, gpa.RequiredGPA))
	}
	if courses.TotalCourses < courses.RequiredTotal {
		reasons = append(reasons, fmt.Sprintf("Only %d courses submitted, minimum %d required", courses.TotalCourses, courses.RequiredTotal))
	}
	if len(courses.MissingMandatoryCourses) > 0 {
		reasons = append(reasons, fmt.Sprintf("Missing mandatory courses: %s", strings.Join(courses.MissingMandatoryCourses, ", ")))
	}
	if len(docs.MissingDocuments) > 0 {
		reasons = append(reasons, fmt.Sprintf("Missing required documents: %s", joinDocTypes(docs.MissingDocuments)))
	}
	return reasons
}

// ==========================
// Boolean policy
// ==========================

// BooleanPolicy is the strict all-or-nothing aggregation: eligible only when
// every criterion passes. It produces no score.
type BooleanPolicy struct {
	cfg EvaluationConfig
}

func NewBooleanPolicy(cfg EvaluationConfig) *BooleanPolicy {
	return &BooleanPolicy{cfg: cfg}
}

func (p *BooleanPolicy) Name() string { return "boolean" }

func (p *BooleanPolicy) Evaluate(app *models.Application, req models.Requirements, approved []models.DocumentType) *models.Verdict {
	cfg := p.cfg.effective(req)

	var courses []models.Course
	if app != nil {
		courses = app.AcademicInfo.Courses
	}

	gpaCheck := CheckGPA(applicationGPA(app), cfg.minGPA(req))
	coursesCheck := CheckCourses(courses, cfg)
	docsCheck := CheckDocuments(approved, cfg.RequiredDocuments)

	eligible := gpaCheck.Passed && coursesCheck.Passed && docsCheck.Passed

	reasons := failureReasons(gpaCheck, coursesCheck, docsCheck)
	status := models.EligibilityNotEligible
	recommended := models.StatusRejected
	if eligible {
		status = models.EligibilityEligible
		recommended = models.StatusAccepted
		reasons = []string{reasonAllCriteriaMet}
	}

	return &models.Verdict{
		Status: status,
		CriteriaChecked: models.CriteriaChecked{
			GPACheck:       gpaCheck,
			CoursesCheck:   coursesCheck,
			DocumentsCheck: docsCheck,
		},
		Reasons:           reasons,
		RecommendedStatus: recommended,
	}
}

// ==========================
// Weighted policy
// ==========================

// WeightedPolicy scores the application on a 0-100 scale and maps the score
// onto three outcomes: eligible, pending_review, not_eligible. Weights are
// GPA 40, courses 40, completeness 20; enabling the documents component
// shifts them to 30/30/20/20.
type WeightedPolicy struct {
	cfg EvaluationConfig
}

func NewWeightedPolicy(cfg EvaluationConfig) *WeightedPolicy {
	return &WeightedPolicy{cfg: cfg}
}

func (p *WeightedPolicy) Name() string { return "weighted" }

func (p *WeightedPolicy) weights() (gpa, courses, completeness, docs float64) {
	if p.cfg.WeighDocuments {
		return 30, 30, 20, 20
	}
	return 40, 40, 20, 0
}

func (p *WeightedPolicy) Evaluate(app *models.Application, req models.Requirements, approved []models.DocumentType) *models.Verdict {
	cfg := p.cfg.effective(req)

	var courses []models.Course
	if app != nil {
		courses = app.AcademicInfo.Courses
	}

	gpaCheck := CheckGPA(applicationGPA(app), cfg.minGPA(req))
	coursesCheck := CheckCourses(courses, cfg)
	docsCheck := CheckDocuments(approved, cfg.RequiredDocuments)
	completeness := CheckCompleteness(app)

	gpaW, coursesW, completenessW, docsW := p.weights()

	score := gpaPoints(gpaCheck, gpaW) +
		coursePoints(courses, req, cfg, coursesW) +
		completenessPoints(completeness, completenessW)
	if p.cfg.WeighDocuments {
		score += documentPoints(docsCheck, cfg.RequiredDocuments, docsW)
	}
	score = math.Round(score*100) / 100

	var status models.EligibilityStatus
	var recommended models.ApplicationStatus
	switch {
	case score >= cfg.EligibleThreshold:
		status = models.EligibilityEligible
		recommended = models.StatusAccepted
	case score >= cfg.ReviewThreshold:
		status = models.EligibilityPendingReview
		recommended = models.StatusUnderReview
	default:
		status = models.EligibilityNotEligible
		recommended = models.StatusRejected
	}

	reasons := failureReasons(gpaCheck, coursesCheck, docsCheck)
	if !completeness.Passed {
		reasons = append(reasons, fmt.Sprintf("Incomplete application record: %s", strings.Join(completeness.MissingFields, ", ")))
	}
	if len(reasons) == 0 {
		reasons = []string{reasonAllCriteriaMet}
	}

	return &models.Verdict{
		Status: status,
		Score:  &score,
		CriteriaChecked: models.CriteriaChecked{
			GPACheck:          gpaCheck,
			CoursesCheck:      coursesCheck,
			DocumentsCheck:    docsCheck,
			CompletenessCheck: &completeness,
		},
		Reasons:           reasons,
		RecommendedStatus: recommended,
	}
}

func applicationGPA(app *models.Application) float64 {
	if app == nil {
		return 0
	}
	return NormalizeGPA(app.AcademicInfo.GPA, app.AcademicInfo.GPAScale)
}

// gpaPoints awards the GPA fraction of its weight, capped at the full weight
// so an over-minimum GPA cannot compensate elsewhere.
func gpaPoints(check models.GPACheck, weight float64) float64 {
	if check.RequiredGPA <= 0 {
		return weight
	}
	fraction := check.StudentGPA / check.RequiredGPA
	if fraction > 1 {
		fraction = 1
	}
	return fraction * weight
}

// coursePoints awards coverage of the explicit required-course list when the
// program declares one; otherwise count-based credit saturating at five
// courses.
func coursePoints(courses []models.Course, req models.Requirements, cfg EvaluationConfig, weight float64) float64 {
	if len(req.RequiredCourses) > 0 {
		matched := 0
		for _, want := range req.RequiredCourses {
			if courseMatched(courses, want, cfg.CourseMatchMode) {
				matched++
			}
		}
		return float64(matched) / float64(len(req.RequiredCourses)) * weight
	}

	count := len(courses)
	if count > 5 {
		count = 5
	}
	return float64(count) / 5 * weight
}

// completenessPoints awards full weight for a complete record, half for a
// partially filled one, nothing for an empty one.
func completenessPoints(check models.CompletenessCheck, weight float64) float64 {
	if check.Passed {
		return weight
	}
	if len(check.MissingFields) < len(completenessFields) {
		return weight / 2
	}
	return 0
}

func documentPoints(check models.DocumentsCheck, required []models.DocumentType, weight float64) float64 {
	if len(required) == 0 {
		return weight
	}
	present := len(required) - len(check.MissingDocuments)
	return float64(present) / float64(len(required)) * weight
}
