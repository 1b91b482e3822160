package domain

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

const (
	// ConfigFileName is the TOML configuration file.
	ConfigFileName = "wam.toml"

	// ConfigFileNameYAML is the YAML configuration file, used when wam.toml is absent.
	ConfigFileNameYAML = "wam.yaml"

	// LockFileName is the persisted lock store.
	LockFileName = "wam-lock.toml"

	// ScratchDirName is the staging directory for downloaded archives.
	ScratchDirName = ".wam-temp"

	// DefaultInstallDir is where archives are extracted.
	DefaultInstallDir = "Interface/Addons"

	// DefaultParallelism bounds in-flight operations per stage.
	DefaultParallelism = 5

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// StagingDir returns the per-addon staging directory below scratch.
// Each addon gets its own directory so archive filenames never collide.
func StagingDir(scratch, key string) string {
	return filepath.Join(scratch, fmt.Sprintf("%016x", xxhash.Sum64String(key)))
}
