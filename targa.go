/*
Package targa is a library for inspecting, converting and cataloguing
Truevision TGA images.
*/
package targa

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/targa/config"
	"github.com/bodgit/targa/posterize"
	"github.com/bodgit/targa/tga"
)

type Targa struct {
	config  *config.Config
	logger  *log.Logger
	catalog *Catalog
}

func New(cfg *config.Config, logger *log.Logger) *Targa {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Targa{
		config: cfg,
		logger: logger,
	}
}

// Close releases the catalog if it was opened
func (t *Targa) Close() error {
	if t.catalog == nil {
		return nil
	}
	err := t.catalog.Close()
	t.catalog = nil
	return err
}

func (t *Targa) openCatalog() (*Catalog, error) {
	if t.catalog != nil {
		return t.catalog, nil
	}
	c, err := NewCatalog(t.config.Database)
	if err != nil {
		return nil, err
	}
	t.catalog = c
	return c, nil
}

func (t *Targa) options() *tga.Options {
	return &tga.Options{Author: t.config.Author}
}

func (t *Targa) logWarnings(file string, m *tga.Image) {
	for _, w := range m.Warnings() {
		t.logger.Printf("%s: warning: %s\n", file, w)
	}
}

// Load decodes the named TGA file, logging any warnings
func (t *Targa) Load(file string) (*tga.Image, error) {
	m, err := tga.Load(file)
	if err != nil {
		return nil, err
	}
	t.logWarnings(file, m)
	return m, nil
}

// Save writes m to the named file with the configured author
func (t *Targa) Save(m *tga.Image, file string) error {
	return m.Save(file, t.options())
}

// Convert rewrites a TGA file uncompressed with a bottom-left origin
func (t *Targa) Convert(in, out string) error {
	m, err := t.Load(in)
	if err != nil {
		return err
	}
	return t.Save(m, out)
}

// Blank writes a new 32-bit image filled with c
func (t *Targa) Blank(out string, width, height int, c color.NRGBA) error {
	m, err := tga.New(width, height, c)
	if err != nil {
		return err
	}
	return t.Save(m, out)
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

// Import converts a GIF, JPEG or PNG file into a 32-bit TGA file
func (t *Targa) Import(in, out string) error {
	src, err := decodeImage(in)
	if err != nil {
		return err
	}
	m, err := tga.FromImage(src)
	if err != nil {
		return err
	}
	return t.Save(m, out)
}

// Export converts a TGA file into a PNG file
func (t *Targa) Export(in, out string) error {
	m, err := t.Load(in)
	if err != nil {
		return err
	}
	img, err := m.NRGBA()
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}

// Posterize reduces a TGA file to at most n colors
func (t *Targa) Posterize(in, out string, n int) error {
	m, err := t.Load(in)
	if err != nil {
		return err
	}
	img, err := m.NRGBA()
	if err != nil {
		return err
	}
	pm, err := posterize.Reduce(img, n)
	if err != nil {
		return err
	}
	dup, err := tga.FromImage(pm)
	if err != nil {
		return err
	}
	if err := dup.SetImageID(m.ImageID()); err != nil {
		return err
	}
	return t.Save(dup, out)
}

// Info summarizes a single TGA file
type Info struct {
	Header    tga.Header
	Footer    tga.Footer
	Extension *tga.ExtensionArea
	ImageID   []byte
	Colors    int
	Warnings  []string
}

// Info decodes the named file and summarizes it. Colors is only counted
// for pixel depths that can be converted.
func (t *Targa) Info(file string) (*Info, error) {
	m, err := t.Load(file)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Header:   m.Header(),
		Footer:   m.Footer(),
		ImageID:  m.ImageID(),
		Warnings: m.Warnings(),
	}
	if e, ok := m.Extension(); ok {
		info.Extension = &e
	}

	switch img, err := m.NRGBA(); {
	case err == nil:
		info.Colors = posterize.CountColors(img)
	case !errors.Is(err, tga.ErrUnsupportedFormat):
		return nil, err
	}

	return info, nil
}

// List returns every image in the catalog
func (t *Targa) List() ([]Entry, error) {
	c, err := t.openCatalog()
	if err != nil {
		return nil, err
	}
	return c.List()
}

// ParseColor parses a color written as RRGGBB or RRGGBBAA hexadecimal,
// optionally prefixed with '#'
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
