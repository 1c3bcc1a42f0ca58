package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess         = 0 // Screening completed and admitted candidates
	ExitScreeningFailed = 1 // A generator failed or nothing was admitted
	ExitError           = 2 // Configuration or runtime error
)

// ScreeningFailureError indicates that the commands ran to completion, but a
// generator failed or no candidate was admitted.
type ScreeningFailureError struct {
	Message string
}

func (e *ScreeningFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var screeningErr *ScreeningFailureError
		if errors.As(err, &screeningErr) {
			os.Exit(ExitScreeningFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
