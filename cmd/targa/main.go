package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/bodgit/targa"
	"github.com/bodgit/targa/config"
	"github.com/urfave/cli/v2"
)

const defaultConfig = "targa.yaml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newTarga(c *cli.Context) (*targa.Targa, error) {
	overrides := make(map[string]interface{})
	for _, name := range []string{"author", "database"} {
		if c.IsSet(name) {
			overrides[name] = c.String(name)
		}
	}
	if c.IsSet("workers") {
		overrides["workers"] = c.Int("workers")
	}

	cfg, err := config.Load(c.String("config"), overrides)
	if err != nil {
		return nil, err
	}

	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return targa.New(cfg, logger), nil
}

// action wraps the common argument check and setup for each command
func action(args int, f func(*cli.Context, *targa.Targa) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < args {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		t, err := newTarga(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer t.Close()

		if err := f(c, t); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func printInfo(w io.Writer, file string, info *targa.Info) {
	h := info.Header
	fmt.Fprintf(w, "File:         %s\n", file)
	fmt.Fprintf(w, "Image type:   %d\n", h.ImageType)
	fmt.Fprintf(w, "Dimensions:   %dx%d\n", h.Image.Width, h.Image.Height)
	fmt.Fprintf(w, "Origin:       %d,%d\n", h.Image.XOrigin, h.Image.YOrigin)
	fmt.Fprintf(w, "Depth:        %d bits, %d alpha bits\n", h.Image.BitsPerPixel, h.Image.AlphaDepth())
	if h.ColorMapType != 0 {
		fmt.Fprintf(w, "Color map:    %d entries of %d bits from %d\n", h.ColorMap.Length, h.ColorMap.BitsPerPixel, h.ColorMap.FirstEntryIndex)
	}
	if len(info.ImageID) > 0 {
		fmt.Fprintf(w, "Image ID:     %q\n", info.ImageID)
	}
	if info.Colors > 0 {
		fmt.Fprintf(w, "Colors:       %d\n", info.Colors)
	}
	fmt.Fprintf(w, "TGA 2.0:      %t\n", info.Footer.IsNewFormat())
	if e := info.Extension; e != nil {
		fmt.Fprintf(w, "Author:       %s\n", e.AuthorName)
		for _, line := range e.AuthorComment {
			if line != "" {
				fmt.Fprintf(w, "Comment:      %s\n", line)
			}
		}
		if e.DateTime.Year != 0 {
			d := e.DateTime
			fmt.Fprintf(w, "Date:         %04d-%02d-%02d %02d:%02d:%02d\n", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
		}
		if e.JobName != "" {
			fmt.Fprintf(w, "Job:          %s (%d:%02d:%02d)\n", e.JobName, e.JobTime.Hours, e.JobTime.Minutes, e.JobTime.Seconds)
		}
		if e.SoftwareID != "" {
			fmt.Fprintf(w, "Software:     %s %d.%02d%s\n", e.SoftwareID, e.SoftwareVersion.Number/100, e.SoftwareVersion.Number%100, strings.Trim(string(e.SoftwareVersion.Letter), " \x00"))
		}
	}
	for _, warning := range info.Warnings {
		fmt.Fprintf(w, "Warning:      %s\n", warning)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "targa"
	app.Usage = "Truevision TGA image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"TARGA_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"db"},
			EnvVars: []string{"TARGA_DB"},
			Usage:   "path to image catalog",
		},
		&cli.StringFlag{
			Name:    "author",
			EnvVars: []string{"TARGA_AUTHOR"},
			Usage:   "author written to saved images",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent scan workers",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Describe TGA files",
			ArgsUsage: "FILE...",
			Action: action(1, func(c *cli.Context, t *targa.Targa) error {
				for i, file := range c.Args().Slice() {
					info, err := t.Info(file)
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(c.App.Writer)
					}
					printInfo(c.App.Writer, file, info)
				}
				return nil
			}),
		},
		{
			Name:        "convert",
			Usage:       "Rewrite a TGA file uncompressed",
			Description: "Run-length encoded images are expanded and the origin moved to the bottom-left corner.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, t *targa.Targa) error {
				return t.Convert(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:      "blank",
			Usage:     "Create a blank 32-bit TGA file",
			ArgsUsage: "OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 64,
					Usage: "width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 64,
					Usage: "height in pixels",
				},
				&cli.StringFlag{
					Name:  "color",
					Value: "#000000ff",
					Usage: "fill color as RRGGBB or RRGGBBAA",
				},
			},
			Action: action(1, func(c *cli.Context, t *targa.Targa) error {
				fill, err := targa.ParseColor(c.String("color"))
				if err != nil {
					return err
				}
				return t.Blank(c.Args().First(), c.Int("width"), c.Int("height"), fill)
			}),
		},
		{
			Name:      "import",
			Usage:     "Convert a GIF, JPEG or PNG file to TGA",
			ArgsUsage: "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, t *targa.Targa) error {
				return t.Import(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:      "export",
			Usage:     "Convert a TGA file to PNG",
			ArgsUsage: "INPUT OUTPUT",
			Action: action(2, func(c *cli.Context, t *targa.Targa) error {
				return t.Export(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:      "posterize",
			Usage:     "Reduce the number of colors in a TGA file",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 16,
					Usage: "maximum number of colors",
				},
			},
			Action: action(2, func(c *cli.Context, t *targa.Targa) error {
				return t.Posterize(c.Args().Get(0), c.Args().Get(1), c.Int("colors"))
			}),
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and catalog TGA files",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: action(1, func(c *cli.Context, t *targa.Targa) error {
				return t.Scan(c.Args().First())
			}),
		},
		{
			Name:  "list",
			Usage: "List cataloged TGA files",
			Action: action(0, func(c *cli.Context, t *targa.Targa) error {
				entries, err := t.List()
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%s %5dx%-5d %2d %s", e.SHA1, e.Width, e.Height, e.Bits, e.Path)
					if e.Author != "" {
						fmt.Fprintf(c.App.Writer, " (%s)", e.Author)
					}
					fmt.Fprintln(c.App.Writer)
				}
				return nil
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
