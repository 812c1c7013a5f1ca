package errs

import (
	"errors"
	"fmt"
)

/**
 *	失败类别，每个类别对应启动流程中的一个阶段
 */
type Kind string

const (
	ConfigNotFound           Kind = "ConfigNotFound"
	ConfigMalformed          Kind = "ConfigMalformed"
	ConfigIncomplete         Kind = "ConfigIncomplete"
	EnvironmentSetupFailed   Kind = "EnvironmentSetupFailed"
	RuntimeInstallFailed     Kind = "RuntimeInstallFailed"
	ApplicationInstallFailed Kind = "ApplicationInstallFailed"
	ProcessLaunchFailed      Kind = "ProcessLaunchFailed"
)

/**
 * Error carries the failure kind together with the underlying cause
 * @property {Kind} Kind - Failure category
 * @property {error} Err - Underlying cause, may be nil
 */
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

/**
 * Wrap err with the given kind
 * @param {Kind} kind - Failure category
 * @param {error} err - Underlying cause
 * @returns {error} Returns *Error, or the original error if it already has a kind
 * @description
 * - An error that is already classified keeps its original kind, so the
 *   innermost classification wins when layers wrap each other
 */
func New(kind Kind, err error) error {
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...interface{}) error {
	return New(kind, fmt.Errorf(format, args...))
}

// KindOf returns the kind attached to err, or "" if err is unclassified.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
