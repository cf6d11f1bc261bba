// Package config resolves the limbdark data root and dataset location.
//
// The data root is the directory holding the downloaded coefficient grid.
// Resolution order, highest priority first:
//
//  1. Explicit value passed by the caller
//  2. Config file ($XDG_CONFIG_HOME/limbdark/config.toml)
//  3. LIMBDARK_ROOT environment variable
//  4. ~/.limbdark
//
// There is no process-wide mutable default; callers resolve a Config once
// and pass it explicitly to the provisioner and lookup components.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kstellar/limbdark/pkg/errors"
)

// appName is used for the default directories.
const appName = "limbdark"

// EnvRoot is the environment variable overriding the default data root.
const EnvRoot = "LIMBDARK_ROOT"

// DefaultDatasetURL is the fixed upstream location of the coefficient grid.
const DefaultDatasetURL = "http://bbq.dfm.io/~dfm/ldcoeffs.db"

// Config holds the resolved settings for provisioning and lookup.
type Config struct {
	// Root is the local directory holding the dataset file.
	Root string `toml:"root"`

	// DatasetURL is the remote location of the dataset.
	// Defaults to DefaultDatasetURL.
	DatasetURL string `toml:"dataset_url"`
}

// Default returns a Config resolved from the environment.
// The config file, if present, is applied on top of environment defaults.
func Default() (Config, error) {
	cfg := Config{
		Root:       envRoot(),
		DatasetURL: DefaultDatasetURL,
	}

	path, err := filePath()
	if err == nil {
		if fileCfg, ok, err := loadFile(path); err != nil {
			return Config{}, err
		} else if ok {
			cfg = cfg.merge(fileCfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithRoot returns a copy of c with the data root replaced.
// An empty root leaves c unchanged.
func (c Config) WithRoot(root string) Config {
	if root != "" {
		c.Root = root
	}
	return c
}

// DatasetPath returns the full path of the local dataset file.
func (c Config) DatasetPath() string {
	return filepath.Join(c.Root, "ldcoeffs.db")
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if err := errors.ValidateDataRoot(c.Root); err != nil {
		return err
	}
	return errors.ValidateURL(c.DatasetURL)
}

// merge applies non-empty fields of other on top of c.
func (c Config) merge(other Config) Config {
	if other.Root != "" {
		c.Root = other.Root
	}
	if other.DatasetURL != "" {
		c.DatasetURL = other.DatasetURL
	}
	return c
}

// envRoot resolves the data root from the environment.
func envRoot() string {
	if root := os.Getenv(EnvRoot); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a directory-relative root; Validate will still
		// accept it and provisioning creates it on demand.
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// filePath returns the config file location using the XDG convention.
func filePath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadFile reads a TOML config file. A missing file is not an error;
// ok reports whether the file existed.
func loadFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, errors.Wrap(errors.ErrCodeFilesystem, err, "read config file %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
	}
	return cfg, true, nil
}
