package utils

// Human-readable messages for the error codes the client is expected to show
// specific guidance for. Anything not in the table falls back to a generic
// message.
var errorMessages = map[string]string{
	"permission-denied":  "You do not have permission to access this data.",
	"unauthenticated":    "Sign in to continue.",
	"not-found":          "The requested item could not be found.",
	"resource-exhausted": "Storage quota exceeded. Delete some data and try again.",
	"unavailable":        "The service is temporarily unavailable. Try again shortly.",
	"invalid-file-type":  "Only JPEG, PNG and WebP images can be attached.",
	"empty-content":      "Memo content cannot be empty.",

	"invalid-category-name": "Category names must be 1 to 4 characters long.",
}

const genericErrorMessage = "An error occurred. Please try again."

// ErrorMessage maps an error code to the message shown to the user.
func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return genericErrorMessage
}
