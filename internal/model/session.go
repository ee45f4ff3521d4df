package model

// StartSessionRequest seeds a quiz session with a generated question batch.
// The batch is structurally re-validated before a session starts, so a client
// cannot smuggle in malformed questions.
type StartSessionRequest struct {
	Questions []Question `json:"questions" binding:"required,min=1,max=50"`
}

// SelectOptionRequest records a pending choice for the current question.
// Option is a pointer so index 0 survives required-field validation.
type SelectOptionRequest struct {
	Option *int `json:"option" binding:"required"`
}
