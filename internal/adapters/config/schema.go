package config

// configFile represents the structure of wam.toml and wam.yaml.
type configFile struct {
	Addons []addonEntry `toml:"addons" yaml:"addons"`
	Config settings     `toml:"config" yaml:"config"`
}

type addonEntry struct {
	Name     string `toml:"name" yaml:"name"`
	Provider string `toml:"provider" yaml:"provider"`
}

// settings holds the optional [config] table. Pointers distinguish unset
// fields from zero values so env and defaults can fill them in.
type settings struct {
	Parallel   *int    `toml:"parallel" yaml:"parallel"`
	Timeout    *string `toml:"timeout" yaml:"timeout"`
	InstallDir *string `toml:"install_dir" yaml:"install_dir"`
	Output     *string `toml:"output" yaml:"output"`
}

// values returns the settings present in the file, keyed like the viper keys.
func (s settings) values() map[string]any {
	out := make(map[string]any, 4)
	if s.Parallel != nil {
		out[keyParallel] = *s.Parallel
	}
	if s.Timeout != nil {
		out[keyTimeout] = *s.Timeout
	}
	if s.InstallDir != nil {
		out[keyInstallDir] = *s.InstallDir
	}
	if s.Output != nil {
		out[keyOutput] = *s.Output
	}
	return out
}
