package ports

import "context"

// Extractor unpacks downloaded archives.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract unpacks the archive at archivePath into dest, preserving relative
	// paths and permission bits. Entries resolving outside dest are rejected.
	Extract(ctx context.Context, archivePath, dest string) error
}
