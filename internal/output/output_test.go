package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veegee/lsdisk/internal/device"
	"github.com/veegee/lsdisk/internal/lsblk"
)

func ptr(s string) *string {
	return &s
}

func sampleDevices() []device.Device {
	return []device.Device{
		{
			Name: "sda", Path: "/dev/sda", Tran: ptr("sas"), Model: "ST4000NM0023", Size: "3.6T",
			LogicalSector: 512, PhysicalSector: 4096,
			WWN: ptr("0x5000"), WWNPath: ptr("/dev/disk/by-id/wwn-0x5000"),
			ArrayFSType: ptr("linux_raid_member"), ArrayLabel: ptr("raidset1"),
		},
		{
			Name: "sdb", Path: "/dev/sdb", Tran: ptr("sata"), Model: "WDC WD40EFRX", Size: "3.6T",
			LogicalSector: 512, PhysicalSector: 4096,
		},
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestParseStyle(t *testing.T) {
	for _, s := range []string{"auto", "table", "plain", "json"} {
		got, err := ParseStyle(s)
		require.NoError(t, err)
		assert.Equal(t, Style(s), got)
	}

	got, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleAuto, got)

	_, err = ParseStyle("psql")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, StylePlain, Resolve(StyleAuto, &buf), "buffers are not terminals")
	assert.Equal(t, StyleBoxed, Resolve(StyleBoxed, &buf), "explicit styles are kept")
	assert.Equal(t, StyleJSON, Resolve(StyleJSON, &buf))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, StylePlain, Resolve(StyleAuto, f), "regular files are not terminals")
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleDevices(), Options{Columns: lsblk.Extended, Style: StyleAuto})
	require.NoError(t, err)

	out := lines(buf.String())
	require.Len(t, out, 2, "one line per device, no header")
	assert.Equal(t,
		[]string{"/dev/sda", "/dev/disk/by-id/wwn-0x5000", "ST4000NM0023", "3.6T", "512/4096", "linux_raid_member", "raidset1"},
		strings.Fields(out[0]))
	assert.True(t, strings.HasPrefix(out[1], "/dev/sdb"))
	assert.NotContains(t, buf.String(), "|")
	assert.NotContains(t, buf.String(), "+-")
}

func TestRenderBoxed(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleDevices(), Options{Columns: lsblk.Minimal, Style: StyleBoxed, Header: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "+-")
	assert.Contains(t, out, "| PATH")
	assert.Contains(t, out, "WWN PATH")
	assert.Contains(t, out, "/dev/disk/by-id/wwn-0x5000")

	sda := strings.Index(out, "/dev/sda")
	sdb := strings.Index(out, "/dev/sdb")
	require.True(t, sda >= 0 && sdb >= 0)
	assert.Less(t, sda, sdb, "rows keep the given order")
}

func TestRenderHeaderPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleDevices(), Options{Columns: lsblk.Minimal, Style: StylePlain, Header: true})
	require.NoError(t, err)

	out := lines(buf.String())
	require.Len(t, out, 3)
	assert.Equal(t, []string{"PATH", "TRAN", "WWN", "PATH"}, strings.Fields(out[0]))
}

func TestRenderEmptyPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, nil, Options{Columns: lsblk.Extended, Style: StylePlain})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleDevices(), Options{Columns: lsblk.Extended, Style: StyleJSON})
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/dev/sda", decoded[0]["path"])
	assert.Equal(t, "/dev/disk/by-id/wwn-0x5000", decoded[0]["wwn_path"])
	assert.Equal(t, "raidset1", decoded[0]["array_label"])
	assert.NotContains(t, decoded[1], "wwn_path", "absent identity path is omitted, not empty")
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
