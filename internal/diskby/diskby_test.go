package diskby

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veegee/lsdisk/internal/device"
)

// fakeDev creates a directory with device node stand-ins and a by-id
// directory next to it
func fakeDev(t *testing.T, nodes ...string) (devDir, byID string) {
	t.Helper()
	root := t.TempDir()
	devDir = filepath.Join(root, "dev")
	byID = filepath.Join(root, "by-id")
	require.NoError(t, os.MkdirAll(devDir, 0755))
	require.NoError(t, os.MkdirAll(byID, 0755))

	for _, n := range nodes {
		require.NoError(t, os.WriteFile(filepath.Join(devDir, n), nil, 0644))
	}

	// EvalSymlinks may resolve the temp dir itself (e.g. /tmp -> /private/tmp)
	devDir, err := filepath.EvalSymlinks(devDir)
	require.NoError(t, err)
	return devDir, byID
}

func withWWNPath(name, devDir, wwnPath string) device.Device {
	d := device.Device{Name: name, Path: filepath.Join(devDir, name)}
	if wwnPath != "" {
		d.WWNPath = &wwnPath
	}
	return d
}

func TestLinks(t *testing.T) {
	devDir, byID := fakeDev(t, "sda")
	require.NoError(t, os.Symlink(filepath.Join(devDir, "sda"), filepath.Join(byID, "wwn-0x5000")))
	require.NoError(t, os.Symlink(filepath.Join(devDir, "gone"), filepath.Join(byID, "wwn-dangling")))
	require.NoError(t, os.WriteFile(filepath.Join(byID, "regular-file"), nil, 0644))

	links := (&Source{Dir: byID}).Links()
	assert.Equal(t, map[string]string{"wwn-0x5000": filepath.Join(devDir, "sda")}, links)
}

func TestLinksMissingDir(t *testing.T) {
	links := (&Source{Dir: filepath.Join(t.TempDir(), "nope")}).Links()
	assert.Empty(t, links)
}

func TestVerify(t *testing.T) {
	devDir, byID := fakeDev(t, "sda", "sdb", "nvme0n1")
	require.NoError(t, os.Symlink(filepath.Join(devDir, "sda"), filepath.Join(byID, "wwn-0x5000")))
	// points at the wrong disk
	require.NoError(t, os.Symlink(filepath.Join(devDir, "sda"), filepath.Join(byID, "wwn-0x6000")))

	devices := []device.Device{
		withWWNPath("sda", devDir, "/dev/disk/by-id/wwn-0x5000"),
		withWWNPath("sdb", devDir, "/dev/disk/by-id/wwn-0x6000"),
		withWWNPath("nvme0n1", devDir, "/dev/disk/by-id/nvme-eui.1234"),
		withWWNPath("sdc", devDir, ""),
	}

	mismatches := (&Source{Dir: byID}).Verify(devices)
	require.Len(t, mismatches, 2)

	assert.Equal(t, filepath.Join(devDir, "sdb"), mismatches[0].Device)
	assert.Equal(t, "/dev/disk/by-id/wwn-0x6000", mismatches[0].WWNPath)
	assert.Equal(t, filepath.Join(devDir, "sda"), mismatches[0].Target)

	assert.Equal(t, filepath.Join(devDir, "nvme0n1"), mismatches[1].Device)
	assert.Empty(t, mismatches[1].Target)
}

func TestNewSource(t *testing.T) {
	assert.Equal(t, "/dev/disk/by-id", NewSource().Dir)
}
