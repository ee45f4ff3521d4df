package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials  ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken          ErrCode = "EMAIL_TAKEN"
	ErrSessionInvalidated  ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired       ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid        ErrCode = "TOKEN_INVALID"
	ErrVerificationInvalid ErrCode = "VERIFICATION_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrConflict  ErrCode = "CONFLICT"

	// ─── Generation ────────────────────────────────────────────────────
	ErrMissingAPIKey       ErrCode = "MISSING_API_KEY"
	ErrEmptyText           ErrCode = "EMPTY_TEXT"
	ErrGenerationFailed    ErrCode = "GENERATION_FAILED"
	ErrNoContent           ErrCode = "NO_CONTENT"
	ErrMalformedAIResponse ErrCode = "MALFORMED_AI_RESPONSE"

	// ─── Documents ─────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrEmptyDocument   ErrCode = "EMPTY_DOCUMENT"

	// ─── Quiz sessions ─────────────────────────────────────────────────
	ErrSessionNotFound   ErrCode = "SESSION_NOT_FOUND"
	ErrIllegalTransition ErrCode = "ILLEGAL_TRANSITION"
	ErrNoSelection       ErrCode = "NO_SELECTION"
	ErrInvalidOption     ErrCode = "INVALID_OPTION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrSessionInvalidated:
		return "Your session was ended because you signed in elsewhere."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrVerificationInvalid:
		return "Verification link is invalid or has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "One or more fields failed validation."
	case ErrInvalidID:
		return "The provided ID is not valid."
	case ErrInvalidPayload:
		return "Request body could not be parsed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrConflict:
		return "The request conflicts with existing data."

	// ─── Generation ────────────────────────────────────────────────────
	case ErrMissingAPIKey:
		return "An API key is required to generate questions."
	case ErrEmptyText:
		return "Document text is empty. Upload a syllabus first."
	case ErrGenerationFailed:
		return "Failed to generate questions. Please check your API key and try again."
	case ErrNoContent:
		return "No content received from AI."
	case ErrMalformedAIResponse:
		return "Failed to parse AI response. The model might be overloaded. Please try again."

	// ─── Documents ─────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Only PDF files are supported."
	case ErrFileTooLarge:
		return "The uploaded file exceeds the size limit."
	case ErrEmptyDocument:
		return "No text could be extracted from the document."

	// ─── Quiz sessions ─────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "Quiz session not found."
	case ErrIllegalTransition:
		return "This action is not allowed in the current quiz state."
	case ErrNoSelection:
		return "Select an option before submitting."
	case ErrInvalidOption:
		return "The selected option does not exist."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An unexpected error occurred. Please try again later."

	default:
		return "Unknown error."
	}
}
