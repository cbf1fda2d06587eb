// Package errors defines the failure taxonomy of the beamer client.
// Every failure inside a running session is fatal; these types let the
// renderer show a useful summary and the driver pick an exit code.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exports so callers do not need both packages.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

var (
	// ErrConfigMissing indicates that no client config file was found.
	ErrConfigMissing = errors.New("config file missing")

	// ErrEndOfStream indicates the server closed the connection.
	ErrEndOfStream = errors.New("unexpected end of stream")

	// ErrChannelSend indicates the display consumer is gone.
	ErrChannelSend = errors.New("display channel closed")

	// ErrUpdateRequired signals that a newer build is available and the
	// process should restart.
	ErrUpdateRequired = errors.New("update required")

	// ErrNoEvent is returned for conditional starts when no event is running.
	ErrNoEvent = errors.New("no current event")
)

// ConnectionError wraps a transport-level failure.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ReadError indicates a malformed or truncated inbound message.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read message: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError indicates an outbound message could not be sent.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write message: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ServerError is an error reported explicitly by the server.
type ServerError struct {
	Debug   string
	Display string
}

func (e *ServerError) Error() string {
	switch {
	case e.Display != "":
		return e.Display
	case e.Debug != "":
		return e.Debug
	default:
		return "server error"
	}
}

// AssetError indicates the logo could not be loaded.
type AssetError struct {
	Op   string
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("logo %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("logo %s: %v", e.Op, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// CommandError indicates an external command exited unsuccessfully.
type CommandError struct {
	Name   string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	output := strings.TrimSpace(e.Output)
	if output == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Detail describes the whole error chain, one line per layer. Server errors
// contribute their debug text since their message is already the summary.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var lines []string
	for current := err; current != nil; current = errors.Unwrap(current) {
		if serverErr, ok := current.(*ServerError); ok && serverErr.Debug != "" {
			lines = append(lines, fmt.Sprintf("%T: %s", current, serverErr.Debug))
			continue
		}
		lines = append(lines, fmt.Sprintf("%T: %v", current, current))
	}
	return strings.Join(lines, "\n")
}
