package handler

import (
	"errors"
	"fmt"

	"github.com/Meesho/BharatMLStack/sonar/internal/externalcall"
)

type FailureCategory string

const (
	CategoryConnection FailureCategory = "connection"
	CategoryValidation FailureCategory = "validation"
	CategoryUnexpected FailureCategory = "unexpected"
)

const messageUnexpected = "an unexpected error occurred"

// Failure is the classified outcome of a failed analysis. Message is safe to
// render; Detail is for the logs only. Metadata and RawJSON are set when the
// payload parsed but failed validation, so the metadata panel still renders.
type Failure struct {
	Category FailureCategory
	Message  string
	Detail   error
	Metadata *Metadata
	RawJSON  string
}

func (f *Failure) Error() string {
	return f.Message
}

func classifyDispatchError(endpoint string, err error) *Failure {
	if errors.Is(err, externalcall.ErrEndpointUnreachable) {
		return &Failure{
			Category: CategoryConnection,
			Message:  fmt.Sprintf("cannot connect to %s; verify the service is running", endpoint),
			Detail:   err,
		}
	}
	return &Failure{
		Category: CategoryUnexpected,
		Message:  messageUnexpected,
		Detail:   err,
	}
}

func validationFailure(message string, detail error) *Failure {
	return &Failure{
		Category: CategoryValidation,
		Message:  message,
		Detail:   detail,
	}
}

func unexpectedFailure(detail error) *Failure {
	return &Failure{
		Category: CategoryUnexpected,
		Message:  messageUnexpected,
		Detail:   detail,
	}
}
