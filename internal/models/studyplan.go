package models

// StudyPlanRequest asks the studyplan agent to turn a syllabus into a weekly
// plan.
type StudyPlanRequest struct {
	FileID         string         `json:"file_id"`
	Grades         []string       `json:"grades"`
	DurationWeeks  int            `json:"duration_weeks"`
	Constraints    map[string]any `json:"constraints,omitempty"`
	TargetLanguage string         `json:"target_language,omitempty"`
}

// Validate checks request shape and applies defaults.
func (r *StudyPlanRequest) Validate() error {
	if r.FileID == "" {
		return NewInputError("file_id is required")
	}
	if r.DurationWeeks < 1 || r.DurationWeeks > 52 {
		return NewInputError("duration_weeks must be between 1 and 52")
	}
	if r.TargetLanguage == "" {
		r.TargetLanguage = "en"
	}
	return nil
}

// WeeklyItem is one week of the generated plan.
type WeeklyItem struct {
	Week     int      `json:"week"`
	Topics   []string `json:"topics"`
	Outcomes []string `json:"outcomes"`
	Checks   []string `json:"checks,omitempty"`
}

// StudyPlanResponse is the studyplan agent's result.
type StudyPlanResponse struct {
	PlanID        string              `json:"plan_id"`
	Overview      string              `json:"overview"`
	WeeklyOutline []WeeklyItem        `json:"weekly_outline"`
	Resources     []map[string]string `json:"resources"`
	PlanPDFURL    string              `json:"plan_pdf_url"`
}
