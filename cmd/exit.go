package cmd

// Process exit codes, following the sysexits convention.
const (
	// ExitOK signals a clean shutdown.
	ExitOK = 0
	// ExitNoTargets signals a valid configuration with no targets
	// configured, or a selection that matched none.
	ExitNoTargets = 66
	// ExitUnavailable signals that the kubectl binary is missing or could
	// not be queried.
	ExitUnavailable = 69
	// ExitConfig signals invalid configuration: no file found, a parse
	// failure or an unsupported document version.
	ExitConfig = 78
)

// exitError carries a categorical exit code alongside the error reported
// to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}
