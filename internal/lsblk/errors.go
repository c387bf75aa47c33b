package lsblk

import (
	"fmt"
	"strings"
)

// EnumerationFailedError is returned when lsblk could not be run or
// exited with a non-zero status
type EnumerationFailedError struct {
	Command  string
	ExitCode int // -1 when the process never started
	Stderr   string
	Err      error
}

func (e *EnumerationFailedError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, msg)
}

func (e *EnumerationFailedError) Unwrap() error {
	return e.Err
}

// MalformedOutputError is returned when lsblk output is not the expected
// JSON document
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed lsblk output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a record lacks a column that the
// selected column set needs
type MissingFieldError struct {
	Device string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("device record is missing field %q", e.Field)
	}
	return fmt.Sprintf("device %s is missing field %q", e.Device, e.Field)
}
