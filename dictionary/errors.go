package dictionary

import "fmt"

// StatusError is returned for non 2xx dictionary responses
type StatusError struct {
	Word       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dictionary lookup for %q returned status %d", e.Word, e.StatusCode)
}
