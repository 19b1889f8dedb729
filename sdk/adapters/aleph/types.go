package aleph

import (
	"fmt"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
)

var (
	ErrSubmissionFailed = errors.New("aleph submission failed")
	ErrUnavailable      = errors.New("content unavailable")
	ErrMalformedInput   = storekit.ErrMalformedInput
)

// SubmitResult is the outcome of an accepted submission.
type SubmitResult struct {
	// ConfirmedHash is the hash the API reported, or LocalHash when it
	// reported none.
	ConfirmedHash string
	LocalHash     string
	StatusCode    int
	Status        string
}

// SubmissionError is a rejected submission. StatusCode is 0 when the
// request never got a response.
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("aleph submission failed: %v", e.Err)
	}
	return fmt.Sprintf("aleph API error (%d): %s", e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionFailed }

// UnavailableError reports content that could not be retrieved or did not
// match its address.
type UnavailableError struct {
	StatusCode int
	Address    string
	Err        error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("content %s unavailable: %v", e.Address, e.Err)
	default:
		return fmt.Sprintf("content %s unavailable (status %d)", e.Address, e.StatusCode)
	}
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

type submitResponse struct {
	Status string `json:"status"`
	Hash   string `json:"hash"`
}
