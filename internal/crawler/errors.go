package crawler

import "fmt"

// NavigationError wraps a page-load failure with the URL and attempt number
// so run audits can point at the exact fetch that gave up.
type NavigationError struct {
	URL     string
	Attempt int
	Err     error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s (attempt %d): %v", e.URL, e.Attempt, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
