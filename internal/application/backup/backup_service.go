package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/backup"
	"github.com/pms/backend/internal/infrastructure/config"
	"github.com/pms/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const fileTimeLayout = "20060102-150405"

// ArchiveUploader pushes finished archives to remote storage
type ArchiveUploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

// BackupService orchestrates exports, restores and the archive listing
type BackupService struct {
	exporter   *backup.Exporter
	restorer   *backup.Restorer
	pgTool     *backup.PGTool
	localStore *storage.LocalStorage
	uploader   ArchiveUploader
	cfg        *config.BackupConfig
	logger     *zap.Logger
}

// NewBackupService creates a backup service. uploader may be nil when
// S3 uploads are disabled.
func NewBackupService(
	exporter *backup.Exporter,
	restorer *backup.Restorer,
	pgTool *backup.PGTool,
	localStore *storage.LocalStorage,
	uploader ArchiveUploader,
	cfg *config.BackupConfig,
	logger *zap.Logger,
) *BackupService {
	return &BackupService{
		exporter:   exporter,
		restorer:   restorer,
		pgTool:     pgTool,
		localStore: localStore,
		uploader:   uploader,
		cfg:        cfg,
		logger:     logger,
	}
}

// Export produces a backup in the requested format, stores it in the
// archive directory and returns its bytes for download.
func (s *BackupService) Export(ctx context.Context, req ExportRequest) (*ExportResponse, []byte, error) {
	format := req.Format
	if format == "" {
		format = "json"
	}

	now := time.Now().UTC()
	var (
		name    string
		version string
		data    []byte
		err     error
	)
	switch format {
	case "json":
		name = fmt.Sprintf("backup-%s.json", now.Format(fileTimeLayout))
		version = backup.FormatVersion
		data, err = s.exportJSON(ctx)
	case "archive":
		name = fmt.Sprintf("backup-%s.tar.gz", now.Format(fileTimeLayout))
		version = backup.ArchiveVersion
		data, err = s.exportArchive(ctx)
	default:
		return nil, nil, shared.NewDomainError("INVALID_FORMAT", "Export format must be json or archive")
	}
	if err != nil {
		return nil, nil, err
	}

	if err := s.localStore.Save(name, bytes.NewReader(data)); err != nil {
		return nil, nil, fmt.Errorf("store backup %q: %w", name, err)
	}

	uploaded := false
	if s.uploader != nil {
		contentType := "application/json"
		if format == "archive" {
			contentType = "application/gzip"
		}
		if err := s.uploader.Upload(ctx, name, data, contentType); err != nil {
			// local copy already exists, remote upload is best effort
			s.logger.Warn("backup upload to remote storage failed", zap.String("name", name), zap.Error(err))
		} else {
			uploaded = true
		}
	}

	s.logger.Info("backup exported",
		zap.String("name", name),
		zap.String("format", format),
		zap.Int("bytes", len(data)))

	return &ExportResponse{
		FileName:    name,
		Format:      format,
		Version:     version,
		SizeBytes:   int64(len(data)),
		S3Uploaded:  uploaded,
		GeneratedAt: now,
	}, data, nil
}

// Restore loads an uploaded backup. The payload's format is detected
// from its magic bytes, not its file name.
func (s *BackupService) Restore(ctx context.Context, data []byte) (*RestoreResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_UPLOAD", "Backup upload is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RestoreTimeout)
	defer cancel()

	switch {
	case backup.IsGzip(data), backup.IsZip(data):
		return s.restoreArchive(ctx, data)
	case backup.IsPGDump(data):
		return s.restoreDump(ctx, data)
	default:
		return s.restoreDocument(ctx, data)
	}
}

// List returns the stored backup files, newest first
func (s *BackupService) List(ctx context.Context) ([]ArchiveInfo, error) {
	files, err := s.localStore.List(".")
	if err != nil {
		return nil, err
	}
	infos := make([]ArchiveInfo, len(files))
	for i, f := range files {
		infos[i] = ArchiveInfo{Name: f.Key, SizeBytes: f.Size, CreatedAt: f.Modified}
	}
	return infos, nil
}

// Open streams one stored backup file for download
func (s *BackupService) Open(name string) (io.ReadCloser, error) {
	return s.localStore.Open(name)
}

func (s *BackupService) exportJSON(ctx context.Context) ([]byte, error) {
	doc, err := s.exporter.ExportWithFiles(ctx, s.cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// exportArchive prefers a pg_dump of the live database and falls back
// to the JSON document when the tooling is not installed.
func (s *BackupService) exportArchive(ctx context.Context) ([]byte, error) {
	var sqlDump, docJSON []byte
	if s.pgTool != nil && s.pgTool.Available() {
		dump, err := s.pgTool.Dump(ctx)
		if err != nil {
			return nil, err
		}
		sqlDump = dump
	} else {
		doc, err := s.exporter.Export(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		docJSON = raw
	}

	var buf bytes.Buffer
	if err := backup.WriteArchive(&buf, sqlDump, docJSON, s.cfg.UploadDir); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *BackupService) restoreArchive(ctx context.Context, data []byte) (*RestoreResponse, error) {
	contents, err := backup.ExtractArchive(data)
	if err != nil {
		return nil, err
	}

	resp := &RestoreResponse{Format: "archive"}
	switch {
	case contents.HasSQLDump() && backup.IsPGDump(contents.SQLDump):
		if s.pgTool == nil || !s.pgTool.Available() {
			return nil, shared.NewDomainError("RESTORE_UNAVAILABLE", "Archive carries a database dump but pg_restore is not installed")
		}
		if err := s.pgTool.Restore(ctx, contents.SQLDump); err != nil {
			return nil, err
		}
	case contents.HasSQLDump():
		// plain-format dump, replayed through psql
		if s.pgTool == nil || !s.pgTool.PSQLAvailable() {
			return nil, shared.NewDomainError("RESTORE_UNAVAILABLE", "Archive carries a SQL script but psql is not installed")
		}
		if err := s.pgTool.Exec(ctx, string(contents.SQLDump)); err != nil {
			return nil, err
		}
	default:
		doc, err := backup.ParseDocument(contents.Document)
		if err != nil {
			return nil, err
		}
		result, err := s.restorer.Restore(ctx, doc)
		if err != nil {
			return nil, err
		}
		resp.Restored = result.Restored
		resp.Skipped = result.Skipped
	}

	written, err := contents.WriteFiles(s.cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	resp.FilesRestored = written

	s.logger.Info("backup archive restored", zap.Int("files", written))
	return resp, nil
}

func (s *BackupService) restoreDump(ctx context.Context, data []byte) (*RestoreResponse, error) {
	if s.pgTool == nil || !s.pgTool.Available() {
		return nil, shared.NewDomainError("RESTORE_UNAVAILABLE", "pg_restore is not installed")
	}
	if err := s.pgTool.Restore(ctx, data); err != nil {
		return nil, err
	}
	s.logger.Info("database dump restored")
	return &RestoreResponse{Format: "pg_dump"}, nil
}

func (s *BackupService) restoreDocument(ctx context.Context, data []byte) (*RestoreResponse, error) {
	doc, err := backup.ParseDocument(data)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_BACKUP", "Upload is not a recognized backup format")
	}

	result, err := s.restorer.Restore(ctx, doc)
	if err != nil {
		return nil, err
	}

	written, err := s.restorer.RestoreFiles(doc, s.cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	s.logger.Info("backup document restored",
		zap.String("version", doc.Version),
		zap.Int("files", written))

	return &RestoreResponse{
		Format:        "json",
		Restored:      result.Restored,
		Skipped:       result.Skipped,
		FilesRestored: written,
	}, nil
}
