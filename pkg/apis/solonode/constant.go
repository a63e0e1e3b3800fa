package solonode

import "fmt"

// Supported CNI selectors.
const (
	CNIFlannel = "flannel"
	CNICilium  = "cilium"
)

// Documented process exit codes. Any other failure propagates the first
// fatal stage error.
const (
	ExitNotRoot        = 1
	ExitUnsupportedCNI = 2
)

// ExitError carries a documented exit code up to the command layer.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func NewExitError(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
