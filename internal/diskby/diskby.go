package diskby

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/veegee/lsdisk/internal/device"
)

// Source reads identity symlinks from a /dev/disk/by-* directory
type Source struct {
	Dir string
}

// NewSource returns a source for /dev/disk/by-id
func NewSource() *Source {
	return &Source{Dir: device.ByIDDir}
}

// Mismatch describes a derived identity path that does not lead to the
// device it was derived from
type Mismatch struct {
	Device  string
	WWNPath string
	// Target is where the link actually points, empty if it does not exist
	Target string
}

// Links reads all symlinks in the directory and returns a map of link name -> resolved path
func (s *Source) Links() map[string]string {
	result := make(map[string]string)

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		log.WithError(err).Debugf("Cannot read %s", s.Dir)
		return result
	}

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		linkPath := filepath.Join(s.Dir, entry.Name())
		target, err := filepath.EvalSymlinks(linkPath)
		if err != nil {
			continue
		}

		result[entry.Name()] = target
	}

	return result
}

// Verify checks every device's derived WWN path against the links on disk.
// Devices without a WWN path are skipped.
func (s *Source) Verify(devices []device.Device) []Mismatch {
	links := s.Links()

	var mismatches []Mismatch
	for _, d := range devices {
		if d.WWNPath == nil {
			continue
		}

		target, ok := links[filepath.Base(*d.WWNPath)]
		if ok && target == canonical(d.Path) {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			Device:  d.Path,
			WWNPath: *d.WWNPath,
			Target:  target,
		})
	}
	return mismatches
}

// canonical resolves any symlinks in a device node path
func canonical(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
