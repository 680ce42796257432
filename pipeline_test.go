package targa

import (
	"crypto/sha1"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/targa/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tg, logs, _ := newTestTarga(t)
	base := t.TempDir()

	for _, dir := range []string{"sub", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0755))
	}

	for i, file := range []string{"one.tga", "sub/two.TGA", ".hidden/three.tga", "sub/notes.txt"} {
		m, err := tga.New(i+1, i+1, red)
		require.NoError(t, err)
		require.NoError(t, m.Save(filepath.Join(base, file), nil))
	}

	// A developer directory gets recorded as a warning
	dev := filepath.Join(base, "sub", "dev.tga")
	m, err := tga.New(1, 1, red)
	require.NoError(t, err)
	require.NoError(t, m.Save(dev, nil))
	b, err := ioutil.ReadFile(dev)
	require.NoError(t, err)
	b[len(b)-22] = 0x12
	require.NoError(t, ioutil.WriteFile(dev, b, 0644))

	// Not a valid image, skipped
	require.NoError(t, ioutil.WriteFile(filepath.Join(base, "bad.tga"), []byte("garbage"), 0644))

	require.NoError(t, tg.Scan(base))

	entries, err := tg.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byPath := make(map[string]Entry)
	for _, e := range entries {
		byPath[e.Path] = e
	}

	one, ok := byPath[filepath.Join(base, "one.tga")]
	require.True(t, ok)
	assert.Equal(t, 1, one.Width)
	b, err = ioutil.ReadFile(filepath.Join(base, "one.tga"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%X", sha1.Sum(b)), one.SHA1)

	two, ok := byPath[filepath.Join(base, "sub", "two.TGA")]
	require.True(t, ok)
	assert.Equal(t, 2, two.Width)

	d, ok := byPath[dev]
	require.True(t, ok)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "developer directory")

	assert.Contains(t, logs.String(), "bad.tga")

	// Scanning again replaces rather than duplicates
	require.NoError(t, tg.Scan(base))
	entries, err = tg.List()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestScanMissing(t *testing.T) {
	tg, _, dir := newTestTarga(t)
	assert.Error(t, tg.Scan(filepath.Join(dir, "missing")))
}
