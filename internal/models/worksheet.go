// Package models defines the request, item, and response shapes shared by the
// gateway and the three agents, plus the error taxonomy mapped at the HTTP
// boundary.
package models

// Worksheet item types recognized by the worksheet agent. Items carrying any
// other type are dropped during normalization.
const (
	ItemMCQ     = "mcq"
	ItemShort   = "short"
	ItemDiagram = "diagram"
)

// KnownItemType reports whether t is one of the recognized worksheet item types.
func KnownItemType(t string) bool {
	return t == ItemMCQ || t == ItemShort || t == ItemDiagram
}

// WorksheetRequest asks the worksheet agent to generate one or more question
// sets from uploaded source pages.
type WorksheetRequest struct {
	// FileIDs are opaque store handles for the source pages, in order.
	// FileID is accepted as a single-source alias.
	FileIDs []string `json:"file_ids,omitempty"`
	FileID  string   `json:"file_id,omitempty"`

	GradeBands []string `json:"grade_bands"`
	// DifficultyLevels must have length 1 (broadcast to every set) or
	// length NumSets (one entry per set).
	DifficultyLevels []string       `json:"difficulty_levels"`
	NumSets          int            `json:"num_sets"`
	QuestionsPerSet  int            `json:"questions_per_set"`
	QuestionMix      map[string]int `json:"question_mix,omitempty"`
	Language         string         `json:"language,omitempty"`
}

// Sources returns the ordered source handles, folding the FileID alias in.
func (r *WorksheetRequest) Sources() []string {
	if len(r.FileIDs) > 0 {
		return r.FileIDs
	}
	if r.FileID != "" {
		return []string{r.FileID}
	}
	return nil
}

// Validate checks request shape, applies defaults, and resolves the
// difficulty broadcast. It must pass before any oracle call is made.
func (r *WorksheetRequest) Validate() error {
	if len(r.Sources()) == 0 {
		return NewInputError("file_ids is required")
	}
	if r.NumSets <= 0 {
		r.NumSets = 1
	}
	if r.QuestionsPerSet <= 0 {
		r.QuestionsPerSet = 12
	}
	if r.Language == "" {
		r.Language = "en"
	}
	if len(r.DifficultyLevels) == 0 {
		r.DifficultyLevels = []string{"balanced"}
	}
	if len(r.DifficultyLevels) != 1 && len(r.DifficultyLevels) != r.NumSets {
		return NewInputError("difficulty_levels length %d matches neither 1 nor num_sets %d",
			len(r.DifficultyLevels), r.NumSets)
	}
	for _, n := range r.QuestionMix {
		if n < 0 {
			return NewInputError("question_mix counts must be non-negative")
		}
	}
	return nil
}

// DifficultyFor returns the difficulty label for the given set index after a
// successful Validate.
func (r *WorksheetRequest) DifficultyFor(set int) string {
	if len(r.DifficultyLevels) == 1 {
		return r.DifficultyLevels[0]
	}
	return r.DifficultyLevels[set]
}

// WorksheetItem is one generated question.
type WorksheetItem struct {
	Type    string   `json:"type"`
	Q       string   `json:"q"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Rubric  string   `json:"rubric,omitempty"`
}

// WorksheetSet is one independently generated and rendered variant.
type WorksheetSet struct {
	SetIndex   int             `json:"set_index"`
	Difficulty string          `json:"difficulty"`
	Items      []WorksheetItem `json:"items"`
	PDFURL     string          `json:"printable_pdf_url"`
}

// WorksheetResponse aggregates all variants under one run identifier.
type WorksheetResponse struct {
	WorksheetID string         `json:"worksheet_id"`
	Sets        []WorksheetSet `json:"sets"`
}
