package lsblk

import "strings"

// Column keys as they appear in lsblk JSON output
const (
	KeyName   = "name"
	KeyPath   = "path"
	KeyTran   = "tran"
	KeyWWN    = "wwn"
	KeyModel  = "model"
	KeySize   = "size"
	KeyLogSec = "log-sec"
	KeyPhySec = "phy-sec"
	KeyFSType = "fstype"
	KeyLabel  = "label"
)

// memberMarker is the FSTYPE substring that marks an array member
// (linux_raid_member, zfs_member, ...)
const memberMarker = "_member"

// IsArrayMember reports whether fstype marks a RAID/array member
func IsArrayMember(fstype string) bool {
	return strings.Contains(fstype, memberMarker)
}

// Validate checks that every top-level record carries the keys the given
// column set reads. Call it once, right after decoding.
func Validate(devices []RawDevice, cols ColumnSet) error {
	for i := range devices {
		if err := validateDevice(&devices[i], cols); err != nil {
			return err
		}
	}
	return nil
}

func validateDevice(d *RawDevice, cols ColumnSet) error {
	required := []string{KeyName, KeyPath, KeyTran}
	if cols == Extended {
		required = append(required, KeyModel, KeySize, KeyLogSec, KeyPhySec, KeyFSType, KeyLabel)
	}
	for _, key := range required {
		if !d.Has(key) {
			return &MissingFieldError{Device: name(d), Field: key}
		}
	}

	// The identity path only reads the WWN for transports that have one
	if tran := str(d.Tran); (tran == "sas" || tran == "nvme") && !d.Has(KeyWWN) {
		return &MissingFieldError{Device: name(d), Field: KeyWWN}
	}

	if cols != Extended {
		return nil
	}

	// Array association scans immediate children only when the device has
	// no filesystem type or label of its own
	needFSType := str(d.FSType) == ""
	needLabel := str(d.Label) == ""
	if !needFSType && !needLabel {
		return nil
	}
	for i := range d.Children {
		child := &d.Children[i]
		if !child.Has(KeyFSType) {
			return &MissingFieldError{Device: name(child), Field: KeyFSType}
		}
		if needLabel && IsArrayMember(str(child.FSType)) && !child.Has(KeyLabel) {
			return &MissingFieldError{Device: name(child), Field: KeyLabel}
		}
	}
	return nil
}

// name returns the best available identifier for error messages
func name(d *RawDevice) string {
	if d.Name != nil {
		return *d.Name
	}
	return str(d.Path)
}
