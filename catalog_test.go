package targa

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bodgit/targa/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// savedImage returns a blank image that has been through a save so it has
// an extension area
func savedImage(t *testing.T, width, height int) *tga.Image {
	t.Helper()
	m, err := tga.New(width, height, red)
	require.NoError(t, err)
	require.NoError(t, tga.Encode(new(bytes.Buffer), m, &tga.Options{Author: "Cataloguer"}))
	return m
}

func TestCatalogAdd(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Add("/images/b.tga", "BBBB", savedImage(t, 2, 3))
	require.NoError(t, err)
	_, err = c.Add("/images/a.tga", "AAAA", savedImage(t, 5, 4))
	require.NoError(t, err)

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "/images/a.tga", entries[0].Path)
	assert.Equal(t, "AAAA", entries[0].SHA1)
	assert.Equal(t, 5, entries[0].Width)
	assert.Equal(t, 4, entries[0].Height)
	assert.Equal(t, 32, entries[0].Bits)
	assert.Equal(t, tga.TypeTrueColor, entries[0].ImageType)
	assert.Equal(t, "Cataloguer", entries[0].Author)
	assert.Empty(t, entries[0].Software)
	assert.Empty(t, entries[0].Warnings)

	assert.Equal(t, "/images/b.tga", entries[1].Path)
}

func TestCatalogReplace(t *testing.T) {
	c := newTestCatalog(t)

	m, err := tga.New(1, 1, red)
	require.NoError(t, err)

	_, err = c.Add("/images/a.tga", "AAAA", m)
	require.NoError(t, err)
	_, err = c.Add("/images/a.tga", "CCCC", savedImage(t, 7, 7))
	require.NoError(t, err)

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CCCC", entries[0].SHA1)
	assert.Equal(t, 7, entries[0].Width)
}

func TestCatalogFindBySHA1(t *testing.T) {
	c := newTestCatalog(t)

	for _, path := range []string{"/x/one.tga", "/y/two.tga"} {
		_, err := c.Add(path, "SAME", savedImage(t, 1, 1))
		require.NoError(t, err)
	}
	_, err := c.Add("/z/three.tga", "OTHER", savedImage(t, 1, 1))
	require.NoError(t, err)

	entries, err := c.FindBySHA1("SAME")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/x/one.tga", entries[0].Path)
	assert.Equal(t, "/y/two.tga", entries[1].Path)

	entries, err = c.FindBySHA1("NONE")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
