package generator

import "fmt"

// ConfigError reports missing generation credentials or settings.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// UserMessage implements the message shown to the learner.
func (e *ConfigError) UserMessage() string { return e.Msg }

// ErrMissingAPIKey is returned when GEMINI_API_KEY is empty.
var ErrMissingAPIKey = &ConfigError{Msg: "GEMINI_API_KEY is not set"}

// Reason classifies a generation failure.
type Reason string

// Failure reasons.
const (
	ReasonUpstream Reason = "upstream"
	ReasonParse    Reason = "parse"
)

// GenerationError is a recoverable generation failure.
type GenerationError struct {
	Reason Reason
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage never includes upstream output.
func (e *GenerationError) UserMessage() string {
	if e.Reason == ReasonParse {
		return "Failed to parse generated quiz data"
	}
	return "Failed to reach the generation service. Please try again."
}

func upstreamErr(format string, args ...any) error {
	return &GenerationError{Reason: ReasonUpstream, Err: fmt.Errorf(format, args...)}
}

func parseErr(err error) error {
	return &GenerationError{Reason: ReasonParse, Err: err}
}
