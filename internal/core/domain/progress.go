package domain

// Steps reported while an addon moves through the pipeline.
const (
	StepDownloadingMetadata = "downloading metadata"
	StepResolving           = "resolving"
	StepParsingMetadata     = "parsing metadata"
	StepGettingDownloadLink = "getting download link"
	StepDownloading         = "downloading"
	StepReadingFilename     = "reading filename"
	StepWritingFile         = "writing file"
	StepExtracting          = "extracting"
)

// Stage names the two fan-out phases of a sync run.
type Stage string

const (
	// StageResolve resolves version metadata for every configured addon.
	StageResolve Stage = "resolve"
	// StageFetch downloads and extracts every stale addon.
	StageFetch Stage = "fetch"
)

// DownloadedArchive is an archive staged on disk, waiting to be extracted.
type DownloadedArchive struct {
	Path string
	Lock ResolvedLock
}
