package service

import "fmt"

// AuthError reports that the current user could not be resolved.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RemoteQueryError reports a failed query against the remote service.
type RemoteQueryError struct {
	Op  string // "query stories", "query child tasks", "query tasks"
	Err error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}
