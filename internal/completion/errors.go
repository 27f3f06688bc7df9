package completion

import "fmt"

// ServiceError reports a failed completion call. Reason carries the upstream
// detail as an opaque string.
type ServiceError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s completion failed: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %s", e.Provider, e.Reason)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
