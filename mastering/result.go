package mastering

// Result is the structured outcome written to stdout. Exactly one of
// Message or Error is populated.
type Result struct {
	Output  string `json:"output,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success builds a result for a completed run.
func Success(output, message string) Result {
	return Result{Output: output, Message: message}
}

// Failure builds a result carrying only the error text.
func Failure(err error) Result {
	return Result{Error: err.Error()}
}
