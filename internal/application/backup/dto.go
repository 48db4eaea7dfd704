package backup

import "time"

// ExportRequest selects the export format
type ExportRequest struct {
	Format string `json:"format" binding:"omitempty,oneof=json archive"`
}

// ExportResponse describes a finished export
type ExportResponse struct {
	FileName    string    `json:"file_name"`
	Format      string    `json:"format"`
	Version     string    `json:"version"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Uploaded  bool      `json:"s3_uploaded"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RestoreResponse reports what a restore touched per table
type RestoreResponse struct {
	Format        string         `json:"format"`
	Restored      map[string]int `json:"restored,omitempty"`
	Skipped       map[string]int `json:"skipped,omitempty"`
	FilesRestored int            `json:"files_restored"`
}

// ArchiveInfo is one stored backup file
type ArchiveInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
