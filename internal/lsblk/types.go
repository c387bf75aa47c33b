package lsblk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ColumnSet selects which lsblk columns are requested and displayed
type ColumnSet string

const (
	// Minimal lists whole devices only with path, transport and identity path
	Minimal ColumnSet = "minimal"
	// Extended lists every column lsblk knows about (-O)
	Extended ColumnSet = "extended"
)

// ParseColumnSet converts a user-supplied name into a ColumnSet
func ParseColumnSet(s string) (ColumnSet, error) {
	switch ColumnSet(s) {
	case Minimal:
		return Minimal, nil
	case Extended, "":
		return Extended, nil
	default:
		return "", fmt.Errorf("unknown column set %q (want minimal or extended)", s)
	}
}

// Output is the document lsblk -J prints
type Output struct {
	Blockdevices []RawDevice `json:"blockdevices"`
}

// RawDevice is a single entry of lsblk JSON output. Nullable columns are
// pointers; keys that were missing entirely are tracked separately so that
// Validate can tell "null" from "absent".
type RawDevice struct {
	Name   *string `json:"name"`
	Path   *string `json:"path"`
	Type   *string `json:"type"`
	Tran   *string `json:"tran"`
	Model  *string `json:"model"`
	Vendor *string `json:"vendor"`
	Rev    *string `json:"rev"`
	Size   Size    `json:"size"`
	HCTL   *string `json:"hctl"`
	LogSec *Number `json:"log-sec"`
	PhySec *Number `json:"phy-sec"`
	FSType *string `json:"fstype"`
	Label  *string `json:"label"`
	WWN    *string `json:"wwn"`

	Children []RawDevice `json:"children,omitempty"`

	keys map[string]bool
}

// rawDevice has the same fields without the custom unmarshaler
type rawDevice RawDevice

// UnmarshalJSON decodes the record and remembers which keys were present
func (d *RawDevice) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var r rawDevice
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*d = RawDevice(r)

	d.keys = make(map[string]bool, len(fields))
	for k := range fields {
		d.keys[k] = true
	}
	return nil
}

// Has reports whether key was present in the decoded record. Records built
// in code (not decoded) report every key as present.
func (d *RawDevice) Has(key string) bool {
	if d.keys == nil {
		return true
	}
	return d.keys[key]
}

// Size holds the SIZE column, which lsblk prints as a human-readable
// string by default and as an integer with --bytes.
type Size struct {
	Human string
	Bytes *uint64
}

// UnmarshalJSON accepts a string, an integer or null
func (s *Size) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Size{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Size{Human: str}
		// util-linux before 2.33 quotes every value, including --bytes sizes
		if n, err := strconv.ParseUint(str, 10, 64); err == nil {
			s.Bytes = &n
		}
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid size %s: %w", data, err)
	}
	*s = Size{Human: string(data), Bytes: &n}
	return nil
}

// Number is an integer column (log-sec, phy-sec) that older lsblk
// versions print as a quoted string.
type Number int

// UnmarshalJSON accepts 512 or "512"
func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = Number(v)
	return nil
}

// str dereferences an optional string column
func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
