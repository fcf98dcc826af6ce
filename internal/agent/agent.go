// Package agent defines the external assessment collaborator: an opaque
// service that receives a content summary prompt and answers with free text
// or JSON. The analyzer treats any failure here as recoverable and falls
// back to rule-based scoring.
package agent

import (
	"context"
	"fmt"
)

// Agent is the assessment collaborator contract.
type Agent interface {
	// Assess sends the prompt and returns the raw answer. Failures are
	// reported as *AssessmentError.
	Assess(ctx context.Context, prompt string) (string, error)
}

// AssessmentError reports a failed assessment call.
type AssessmentError struct {
	Provider string
	Err      error
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("%s assessment: %v", e.Provider, e.Err)
}

func (e *AssessmentError) Unwrap() error { return e.Err }
