package device

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/veegee/lsdisk/internal/lsblk"
)

// ByIDDir is where udev publishes stable identity links
const ByIDDir = "/dev/disk/by-id"

// Transports that have a stable by-id naming convention
const (
	TranSAS  = "sas"
	TranNVMe = "nvme"
)

// Device is a normalized, read-only view of one lsblk record. All derived
// fields are computed once by New.
type Device struct {
	// Identity
	Name string  `json:"name"`
	Path string  `json:"path"`
	WWN  *string `json:"wwn,omitempty"`

	// Physical
	Type           string  `json:"type,omitempty"`
	Tran           *string `json:"tran,omitempty"`
	Model          string  `json:"model,omitempty"`
	Vendor         string  `json:"vendor,omitempty"`
	Revision       string  `json:"rev,omitempty"`
	Size           string  `json:"size,omitempty"`
	SizeBytes      *uint64 `json:"size_bytes,omitempty"`
	HCTL           string  `json:"hctl,omitempty"`
	LogicalSector  int     `json:"log_sec,omitempty"`
	PhysicalSector int     `json:"phy_sec,omitempty"`

	// Filesystem
	FSType string `json:"fstype,omitempty"`
	Label  string `json:"label,omitempty"`

	// Derived
	WWNPath     *string `json:"wwn_path,omitempty"`
	ArrayFSType *string `json:"array_fstype,omitempty"`
	ArrayLabel  *string `json:"array_label,omitempty"`

	Children []Device `json:"children,omitempty"`
}

// New wraps a raw lsblk record, its children included, and resolves the
// derived attributes
func New(raw lsblk.RawDevice) Device {
	d := Device{
		Name:     str(raw.Name),
		Path:     str(raw.Path),
		WWN:      raw.WWN,
		Type:     str(raw.Type),
		Tran:     raw.Tran,
		Model:    strings.TrimSpace(str(raw.Model)),
		Vendor:   strings.TrimSpace(str(raw.Vendor)),
		Revision: strings.TrimSpace(str(raw.Rev)),
		Size:     raw.Size.Human,
		HCTL:     str(raw.HCTL),
		FSType:   str(raw.FSType),
		Label:    str(raw.Label),
	}
	if raw.Size.Bytes != nil {
		n := *raw.Size.Bytes
		d.SizeBytes = &n
		d.Size = humanize.IBytes(n)
	}
	if raw.LogSec != nil {
		d.LogicalSector = int(*raw.LogSec)
	}
	if raw.PhySec != nil {
		d.PhysicalSector = int(*raw.PhySec)
	}

	if len(raw.Children) > 0 {
		d.Children = make([]Device, 0, len(raw.Children))
		for _, c := range raw.Children {
			d.Children = append(d.Children, New(c))
		}
	}

	d.WWNPath = ComputeWWNPath(d.Tran, d.WWN)
	d.ArrayFSType = ComputeArrayFSType(d.FSType, d.Children)
	d.ArrayLabel = ComputeArrayLabel(d.Label, d.Children)
	return d
}

// ComputeWWNPath builds the /dev/disk/by-id path for SAS and NVMe devices.
// Other transports, or a missing WWN, have no identity path.
func ComputeWWNPath(tran, wwn *string) *string {
	if tran == nil || wwn == nil {
		return nil
	}

	var prefix string
	switch *tran {
	case TranSAS:
		prefix = "wwn-"
	case TranNVMe:
		prefix = "nvme-"
	default:
		return nil
	}

	p := ByIDDir + "/" + prefix + *wwn
	return &p
}

// ComputeArrayFSType returns the device's own filesystem type, or failing
// that the type of the first immediate child that is an array member
func ComputeArrayFSType(fstype string, children []Device) *string {
	if fstype != "" {
		return &fstype
	}
	for _, c := range children {
		if lsblk.IsArrayMember(c.FSType) {
			s := c.FSType
			return &s
		}
	}
	return nil
}

// ComputeArrayLabel returns the device's own label, or failing that the
// first non-empty label among immediate children that are array members
func ComputeArrayLabel(label string, children []Device) *string {
	if label != "" {
		return &label
	}
	for _, c := range children {
		if lsblk.IsArrayMember(c.FSType) && c.Label != "" {
			s := c.Label
			return &s
		}
	}
	return nil
}

// Equal reports whether a and b are the same physical device. Only the WWN
// is compared, so aliases of one disk under different names are equal.
func Equal(a, b Device) bool {
	if a.WWN == nil || b.WWN == nil {
		return a.WWN == nil && b.WWN == nil
	}
	return *a.WWN == *b.WWN
}

// Less orders a before b when its name sorts first and is no longer than
// b's name. This is not a strict weak ordering: "sdb" and "sdaa" are
// unordered relative to each other.
func Less(a, b Device) bool {
	return a.Name < b.Name && len(a.Name) <= len(b.Name)
}

// FlattenAndSort wraps the top-level records (partitions stay nested under
// their disk) and stable-sorts them with Less
func FlattenAndSort(raws []lsblk.RawDevice) []Device {
	devices := make([]Device, 0, len(raws))
	for _, r := range raws {
		devices = append(devices, New(r))
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return Less(devices[i], devices[j])
	})
	return devices
}

// Dedupe drops devices whose WWN matches one already seen, keeping the
// first. Devices without a WWN are always kept.
func Dedupe(devices []Device) []Device {
	seen := make(map[string]bool)
	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.WWN != nil {
			if seen[*d.WWN] {
				continue
			}
			seen[*d.WWN] = true
		}
		result = append(result, d)
	}
	return result
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
