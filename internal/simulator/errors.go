package simulator

import "fmt"

// InputError reports a URL the simulator cannot take a hostname from.
type InputError struct {
	URL string
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
