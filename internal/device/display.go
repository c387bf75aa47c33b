package device

import (
	"fmt"
	"strings"

	"github.com/veegee/lsdisk/internal/lsblk"
)

var (
	minimalHeaders  = []string{"PATH", "TRAN", "WWN PATH"}
	extendedHeaders = []string{"PATH", "WWN PATH", "MODEL", "SIZE", "SECTOR", "FSTYPE", "LABEL"}
)

// Headers returns column titles matching DisplayFields for the column set
func Headers(cols lsblk.ColumnSet) []string {
	if cols == lsblk.Minimal {
		return append([]string(nil), minimalHeaders...)
	}
	return append([]string(nil), extendedHeaders...)
}

// DisplayFields returns the row values shown for the device. Absent values
// render as empty strings.
func (d Device) DisplayFields(cols lsblk.ColumnSet) []string {
	if cols == lsblk.Minimal {
		return []string{d.Path, str(d.Tran), str(d.WWNPath)}
	}
	return []string{
		d.Path,
		str(d.WWNPath),
		d.Model,
		d.Size,
		d.SectorSize(),
		str(d.ArrayFSType),
		str(d.ArrayLabel),
	}
}

// SectorSize formats the logical/physical sector geometry, e.g. "512/4096"
func (d Device) SectorSize() string {
	return fmt.Sprintf("%d/%d", d.LogicalSector, d.PhysicalSector)
}

// String joins the display fields with spaces
func (d Device) String() string {
	return strings.Join(d.DisplayFields(lsblk.Extended), " ")
}
