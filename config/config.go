/*
Package config loads the targa configuration file.

The file is YAML with the following keys, all optional:

	author: Jane Doe     # written to the extension area of saved images
	workers: 10          # number of concurrent workers used when scanning
	database: targa.db   # path to the image catalog
*/
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultWorkers is the number of scan workers when not configured
	DefaultWorkers = 10
	// DefaultDatabase is the catalog path when not configured
	DefaultDatabase = "targa.db"
)

// Config holds the settings shared by the library and the command
type Config struct {
	Author   string `mapstructure:"author"`
	Workers  int    `mapstructure:"workers"`
	Database string `mapstructure:"database"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Workers:  DefaultWorkers,
		Database: DefaultDatabase,
	}
}

// Load reads the configuration from path, if it exists, and then applies
// any overrides on top. Override values are weakly typed so flag and
// environment strings can be passed as-is. A missing file is not an error.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	raw := make(map[string]interface{})

	if path != "" {
		b, err := ioutil.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("config: failed to read '%s': %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &raw); err != nil {
				return nil, fmt.Errorf("config: failed to parse '%s': %w", path, err)
			}
		}
	}

	for k, v := range overrides {
		raw[k] = v
	}

	cfg := Default()
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := d.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, errors.New("config: workers must be at least 1")
	}

	return cfg, nil
}
