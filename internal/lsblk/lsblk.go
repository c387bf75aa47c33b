package lsblk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultBinary is the enumeration utility invoked when none is configured
const DefaultBinary = "lsblk"

// minimalColumns are the columns requested for the device-only listing
var minimalColumns = []string{"NAME", "PATH", "TYPE", "TRAN", "WWN"}

// Runner executes an external command and returns its captured output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run starts the command and waits for it to exit, so the child is always
// reaped regardless of outcome
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// exitCoder is satisfied by *exec.ExitError
type exitCoder interface {
	ExitCode() int
}

// Options control a single enumeration
type Options struct {
	Columns ColumnSet
	// Bytes asks lsblk for sizes in bytes instead of human-readable strings
	Bytes bool
}

// Client enumerates block devices through lsblk
type Client struct {
	Binary string
	Runner Runner
}

// NewClient returns a client for the given binary, defaulting to lsblk
func NewClient(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{
		Binary: binary,
		Runner: ExecRunner{},
	}
}

// Args builds the lsblk argument list: JSON, tree layout, and either all
// columns or the device-only minimal set
func Args(opts Options) []string {
	args := []string{"-J"}
	if opts.Columns == Minimal {
		args = append(args, "-d", "-o", strings.Join(minimalColumns, ","))
	} else {
		args = append(args, "-O")
	}
	if opts.Bytes {
		args = append(args, "-b")
	}
	return args
}

// List runs lsblk and decodes the top-level device list
func (c *Client) List(ctx context.Context, opts Options) ([]RawDevice, error) {
	args := Args(opts)
	log.WithField("args", args).Debugf("Running %s", c.Binary)

	stdout, stderr, err := c.Runner.Run(ctx, c.Binary, args...)
	if err != nil {
		failure := &EnumerationFailedError{
			Command:  c.Binary,
			ExitCode: -1,
			Stderr:   string(stderr),
			Err:      err,
		}
		var exitErr exitCoder
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}
		return nil, failure
	}

	devices, err := Decode(stdout)
	if err != nil {
		return nil, err
	}
	log.Debugf("lsblk reported %d top-level devices", len(devices))
	return devices, nil
}

// Decode parses an lsblk -J document
func Decode(data []byte) ([]RawDevice, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &MalformedOutputError{Err: err}
	}
	if _, ok := fields["blockdevices"]; !ok {
		return nil, &MalformedOutputError{Err: errors.New(`missing "blockdevices" field`)}
	}

	var output Output
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, &MalformedOutputError{Err: err}
	}
	return output.Blockdevices, nil
}
