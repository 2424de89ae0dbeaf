// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad flags, invalid settings).
	UserError = 1

	// AuthError indicates missing credentials or a session the service rejects.
	AuthError = 2

	// BackendError indicates a failed fetch (network, API, cancellation).
	BackendError = 3
)
