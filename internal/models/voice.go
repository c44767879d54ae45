package models

// Visual formats the voice agent can shape its explanation as.
const (
	FormatBoardNotes = "board-notes"
	FormatSteps      = "steps"
	FormatStory      = "story"
)

// VoiceRequest asks the voice agent to answer a spoken question.
type VoiceRequest struct {
	FileID         string `json:"file_id"`
	Level          string `json:"level"`
	VisualFormat   string `json:"visual_format,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	TopicHint      string `json:"topic_hint,omitempty"`
}

// Validate checks request shape and applies defaults.
func (r *VoiceRequest) Validate() error {
	if r.FileID == "" {
		return NewInputError("file_id is required")
	}
	switch r.VisualFormat {
	case "":
		r.VisualFormat = FormatBoardNotes
	case FormatBoardNotes, FormatSteps, FormatStory:
	default:
		return NewInputError("visual_format must be one of board-notes, steps, story")
	}
	if r.TargetLanguage == "" {
		r.TargetLanguage = "en"
	}
	return nil
}

// VoiceResponse is the voice agent's result.
type VoiceResponse struct {
	AnswerID    string `json:"answer_id"`
	Transcript  string `json:"transcript"`
	Explanation string `json:"explanation"`
	AudioURL    string `json:"answer_audio_url"`
}
