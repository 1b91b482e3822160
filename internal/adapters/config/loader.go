// Package config provides the configuration loader for wam.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. WAM_PARALLEL.
const EnvPrefix = "WAM"

const (
	keyParallel   = "parallel"
	keyTimeout    = "timeout"
	keyInstallDir = "install_dir"
	keyOutput     = "output"
)

var outputModes = map[string]bool{"": true, "auto": true, "tui": true, "linear": true, "ci": true}

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads wam.toml, or wam.yaml when it is absent, from cwd.
// Settings are layered as overrides, then WAM_* environment, then the file, then defaults.
func (l *Loader) Load(cwd string, overrides domain.Overrides) (*domain.Config, error) {
	path, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	file, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	addons, err := l.buildAddons(file.Addons, path)
	if err != nil {
		return nil, err
	}

	v, err := newViper(file.Config, overrides)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	cfg := &domain.Config{Addons: addons, Root: cwd}
	if err := applySettings(cfg, v); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, error) {
	for _, name := range []string{domain.ConfigFileName, domain.ConfigFileNameYAML} {
		candidate := filepath.Join(cwd, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", domain.ConfigError(zerr.With(domain.ErrConfigNotFound, "cwd", cwd))
}

func readConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is one of the known config names in cwd
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ConfigError(zerr.With(domain.ErrConfigNotFound, "path", path))
		}
		return nil, domain.ConfigError(zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path))
	}

	var file configFile
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &file)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&file); errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, domain.ConfigError(zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path))
	}
	return &file, nil
}

// buildAddons validates the entries and collapses duplicate keys; the first declaration wins.
func (l *Loader) buildAddons(entries []addonEntry, path string) ([]domain.AddonRequest, error) {
	addons := make([]domain.AddonRequest, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for i, entry := range entries {
		req, err := domain.NewAddonRequest(entry.Name, entry.Provider)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "index", i), "path", path)
		}
		if seen[req.Key()] {
			if l.Logger != nil {
				l.Logger.Warn(fmt.Sprintf("duplicate addon %s in %s ignored", req.Key(), filepath.Base(path)))
			}
			continue
		}
		seen[req.Key()] = true
		addons = append(addons, req)
	}
	return addons, nil
}

func newViper(file settings, overrides domain.Overrides) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(keyParallel, domain.DefaultParallelism)
	v.SetDefault(keyTimeout, domain.DefaultRequestTimeout.String())
	v.SetDefault(keyInstallDir, domain.DefaultInstallDir)
	v.SetDefault(keyOutput, "auto")

	if err := v.MergeConfigMap(file.values()); err != nil {
		return nil, domain.ConfigError(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()))
	}

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{keyParallel, keyTimeout, keyInstallDir} {
		if err := v.BindEnv(key); err != nil {
			return nil, domain.ConfigError(err)
		}
	}

	// Highest priority: CLI flags
	if overrides.Parallel != 0 {
		v.Set(keyParallel, overrides.Parallel)
	}
	if overrides.Timeout != 0 {
		v.Set(keyTimeout, overrides.Timeout.String())
	}
	if overrides.InstallDir != "" {
		v.Set(keyInstallDir, overrides.InstallDir)
	}
	if overrides.OutputMode != "" {
		v.Set(keyOutput, overrides.OutputMode)
	}
	return v, nil
}

func applySettings(cfg *domain.Config, v *viper.Viper) error {
	cfg.Parallel = v.GetInt(keyParallel)
	if cfg.Parallel < 1 {
		return domain.ConfigError(zerr.With(domain.ErrInvalidParallelism, "parallel", v.Get(keyParallel)))
	}

	rawTimeout := strings.TrimSpace(v.GetString(keyTimeout))
	timeout, err := time.ParseDuration(rawTimeout)
	if err != nil || timeout < 0 {
		return domain.ConfigError(zerr.With(domain.ErrInvalidTimeout, "timeout", rawTimeout))
	}
	cfg.Timeout = timeout

	installDir := v.GetString(keyInstallDir)
	if !filepath.IsAbs(installDir) {
		installDir = filepath.Join(cfg.Root, installDir)
	}
	cfg.InstallDir = filepath.Clean(installDir)

	mode := strings.ToLower(strings.TrimSpace(v.GetString(keyOutput)))
	if !outputModes[mode] {
		return domain.ConfigError(zerr.With(domain.ErrInvalidOutputMode, "output", mode))
	}
	cfg.OutputMode = mode
	return nil
}
