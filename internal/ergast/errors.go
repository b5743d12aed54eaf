package ergast

import "fmt"

// APIError describes a failed upstream call. StatusCode is zero when
// the request never produced a response.
type APIError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ergast %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("ergast %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
