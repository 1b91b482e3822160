package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Failure classes. Every error produced while syncing an addon carries exactly
// one of these, reachable through errors.Is.
var (
	// ErrTransport is the class of network and I/O failures reaching a provider.
	ErrTransport = zerr.New("transport error")

	// ErrParse is the class of unexpected page structure or malformed fields.
	ErrParse = zerr.New("parse error")

	// ErrConfig is the class of missing or unparsable configuration and lock files.
	ErrConfig = zerr.New("configuration error")

	// ErrStorage is the class of filesystem failures.
	ErrStorage = zerr.New("storage error")
)

var (
	// ErrConfigNotFound is returned when neither wam.toml nor wam.yaml exists.
	ErrConfigNotFound = zerr.New("could not find wam.toml or wam.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnknownProvider is returned when an addon names a provider outside the known set.
	ErrUnknownProvider = zerr.New("unknown provider")

	// ErrMissingAddonName is returned when an addon entry has an empty name.
	ErrMissingAddonName = zerr.New("addon name is required")

	// ErrInvalidParallelism is returned when the concurrency limit is below one.
	ErrInvalidParallelism = zerr.New("parallel must be at least 1")

	// ErrInvalidTimeout is returned when the request timeout is negative or malformed.
	ErrInvalidTimeout = zerr.New("timeout must be a non-negative duration")

	// ErrInvalidOutputMode is returned when the output mode is not auto, tui, linear or ci.
	ErrInvalidOutputMode = zerr.New("invalid output mode")

	// ErrInvalidLogFormat is returned when the log format is not pretty or json.
	ErrInvalidLogFormat = zerr.New("invalid log format")

	// ErrLockReadFailed is returned when the lock file exists but cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lock file")

	// ErrLockParseFailed is returned when the lock file cannot be decoded.
	ErrLockParseFailed = zerr.New("failed to parse lock file")

	// ErrLockWriteFailed is returned when the merged lock store cannot be persisted.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrRequestFailed is returned when an HTTP request cannot be completed.
	ErrRequestFailed = zerr.New("request failed")

	// ErrUnexpectedStatus is returned when a provider answers with a non-2xx status.
	ErrUnexpectedStatus = zerr.New("unexpected response status")

	// ErrResponseTooLarge is returned when a response body exceeds the configured limit.
	ErrResponseTooLarge = zerr.New("response body too large")

	// ErrElementNotFound is returned when an expected page element is absent.
	ErrElementNotFound = zerr.New("expected page element not found")

	// ErrMissingAddonID is returned when a search result link carries no addon id.
	ErrMissingAddonID = zerr.New("search result has no addon id")

	// ErrInvalidTimestamp is returned when a publish date or epoch cannot be parsed.
	ErrInvalidTimestamp = zerr.New("invalid timestamp")

	// ErrMissingFilename is returned when no archive filename can be derived from a response.
	ErrMissingFilename = zerr.New("could not determine archive filename")

	// ErrArchiveWriteFailed is returned when a downloaded archive cannot be written to disk.
	ErrArchiveWriteFailed = zerr.New("failed to write archive")

	// ErrArchiveOpenFailed is returned when an archive cannot be opened for extraction.
	ErrArchiveOpenFailed = zerr.New("failed to open archive")

	// ErrExtractFailed is returned when writing an extracted entry fails.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrPathEscapes is returned when an archive entry would be written outside the target directory.
	ErrPathEscapes = zerr.New("archive entry escapes target directory")

	// ErrScratchDirFailed is returned when the scratch directory cannot be prepared.
	ErrScratchDirFailed = zerr.New("failed to prepare scratch directory")

	// ErrInstallDirFailed is returned when the install directory cannot be created.
	ErrInstallDirFailed = zerr.New("failed to create install directory")

	// ErrSyncFailed marks a run that could not complete. Per-addon failures never carry it.
	ErrSyncFailed = zerr.New("sync failed")
)

// Fault tags an error with its failure class while leaving the message untouched.
type Fault struct {
	Class error
	Err   error
}

// Error returns the message of the tagged error.
func (f *Fault) Error() string {
	return f.Err.Error()
}

// Unwrap exposes both the tagged error and its class.
func (f *Fault) Unwrap() []error {
	return []error{f.Err, f.Class}
}

func tag(class, err error) error {
	if err == nil {
		return nil
	}
	var existing *Fault
	if errors.As(err, &existing) && existing.Class == class {
		return err
	}
	return &Fault{Class: class, Err: err}
}

// TransportError tags err as a transport failure.
func TransportError(err error) error { return tag(ErrTransport, err) }

// ParseError tags err as a parse failure.
func ParseError(err error) error { return tag(ErrParse, err) }

// ConfigError tags err as a configuration failure.
func ConfigError(err error) error { return tag(ErrConfig, err) }

// StorageError tags err as a storage failure.
func StorageError(err error) error { return tag(ErrStorage, err) }

// ClassOf returns a short label for the failure class of err.
func ClassOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "unknown"
	}
}
