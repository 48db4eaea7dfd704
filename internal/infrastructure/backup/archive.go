package backup

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	archiveDatabaseSQL  = "database.sql"
	archiveDatabaseJSON = "database.json"
	archiveUploadsDir   = "uploads"
	archiveManifest     = "manifest.json"

	// maxArchiveEntrySize caps a single decompressed entry
	maxArchiveEntrySize = 512 << 20
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zipMagic    = []byte("PK\x03\x04")
	pgDumpMagic = []byte("PGDMP")
)

// IsPGDump reports whether data starts with the pg_dump custom-format magic
func IsPGDump(data []byte) bool {
	return bytes.HasPrefix(data, pgDumpMagic)
}

// IsGzip reports whether data looks like a gzip stream
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// IsZip reports whether data looks like a zip archive
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// Manifest is the version marker written into every archive
type Manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Database  string    `json:"database"`
	FileCount int       `json:"fileCount"`
}

// ArchiveContents is what extraction recovers from a v2.0 archive
type ArchiveContents struct {
	Manifest *Manifest
	// SQLDump is set when the archive carries a database.sql entry,
	// either pg_dump custom format or plain SQL
	SQLDump []byte
	// Document is set when the archive carries a JSON export instead
	Document []byte
	// Files maps upload-relative paths to their raw bytes
	Files map[string][]byte
}

// HasSQLDump reports whether the archive carried a database dump
func (c *ArchiveContents) HasSQLDump() bool {
	return len(c.SQLDump) > 0
}

// WriteArchive streams a v2.0 tar.gz archive to w. Exactly one of sqlDump
// or docJSON must be non-empty. uploadDir may be empty or missing.
func WriteArchive(w io.Writer, sqlDump, docJSON []byte, uploadDir string) error {
	if len(sqlDump) == 0 && len(docJSON) == 0 {
		return fmt.Errorf("backup: archive needs a database dump or JSON document")
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	dbName := archiveDatabaseJSON
	if len(sqlDump) > 0 {
		dbName = archiveDatabaseSQL
	}

	fileCount := 0
	uploads := map[string][]byte{}
	if uploadDir != "" {
		if _, err := os.Stat(uploadDir); err == nil {
			err := filepath.WalkDir(uploadDir, func(p string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				rel, err := filepath.Rel(uploadDir, p)
				if err != nil {
					return err
				}
				uploads[filepath.ToSlash(rel)] = data
				return nil
			})
			if err != nil {
				return fmt.Errorf("backup: collect uploads: %w", err)
			}
			fileCount = len(uploads)
		}
	}

	manifest := Manifest{
		Version:   ArchiveVersion,
		CreatedAt: time.Now().UTC(),
		Database:  dbName,
		FileCount: fileCount,
	}
	manifestJSON, err := marshalManifest(manifest)
	if err != nil {
		return err
	}

	if err := writeTarEntry(tw, archiveManifest, manifestJSON); err != nil {
		return err
	}
	if len(sqlDump) > 0 {
		if err := writeTarEntry(tw, archiveDatabaseSQL, sqlDump); err != nil {
			return err
		}
	} else {
		if err := writeTarEntry(tw, archiveDatabaseJSON, docJSON); err != nil {
			return err
		}
	}
	for rel, data := range uploads {
		if err := writeTarEntry(tw, path.Join(archiveUploadsDir, rel), data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("backup: close tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("backup: close gzip: %w", err)
	}
	return nil
}

func writeTarEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: time.Now().UTC(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("backup: tar header %q: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("backup: tar entry %q: %w", name, err)
	}
	return nil
}

// ExtractArchive reads a tar.gz or zip archive. Plain JSON documents and
// raw pg_dump files pass through so older backups keep restoring.
func ExtractArchive(data []byte) (*ArchiveContents, error) {
	switch {
	case IsGzip(data):
		return extractTarGz(data)
	case IsZip(data):
		return extractZip(data)
	case IsPGDump(data):
		return &ArchiveContents{SQLDump: data}, nil
	default:
		// assume a bare v1.x JSON document
		trimmed := bytes.TrimLeft(data, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return &ArchiveContents{Document: data}, nil
		}
		return nil, fmt.Errorf("backup: unrecognized archive format")
	}
}

func extractTarGz(data []byte) (*ArchiveContents, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("backup: open gzip: %w", err)
	}
	defer gz.Close()

	contents := &ArchiveContents{Files: map[string][]byte{}}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("backup: read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		buf, err := readEntry(tr, hdr.Size)
		if err != nil {
			return nil, fmt.Errorf("backup: read tar entry %q: %w", hdr.Name, err)
		}
		if err := placeEntry(contents, hdr.Name, buf); err != nil {
			return nil, err
		}
	}
	return contents, nil
}

func extractZip(data []byte) (*ArchiveContents, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("backup: open zip: %w", err)
	}

	contents := &ArchiveContents{Files: map[string][]byte{}}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("backup: open zip entry %q: %w", f.Name, err)
		}
		buf, err := readEntry(rc, int64(f.UncompressedSize64))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("backup: read zip entry %q: %w", f.Name, err)
		}
		if err := placeEntry(contents, f.Name, buf); err != nil {
			return nil, err
		}
	}
	return contents, nil
}

func readEntry(r io.Reader, size int64) ([]byte, error) {
	if size > maxArchiveEntrySize {
		return nil, fmt.Errorf("entry too large (%d bytes)", size)
	}
	return io.ReadAll(io.LimitReader(r, maxArchiveEntrySize+1))
}

func placeEntry(contents *ArchiveContents, name string, data []byte) error {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "./"))
	if strings.HasPrefix(clean, "..") {
		return fmt.Errorf("backup: archive entry escapes root: %q", name)
	}
	switch {
	case clean == archiveManifest:
		m, err := unmarshalManifest(data)
		if err != nil {
			return err
		}
		contents.Manifest = m
	case clean == archiveDatabaseSQL:
		// custom-format dumps carry the PGDMP magic, anything else is
		// treated as plain SQL
		contents.SQLDump = data
	case clean == archiveDatabaseJSON:
		contents.Document = data
	case strings.HasPrefix(clean, archiveUploadsDir+"/"):
		rel := strings.TrimPrefix(clean, archiveUploadsDir+"/")
		contents.Files[rel] = data
	}
	return nil
}

func marshalManifest(m Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: encode manifest: %w", err)
	}
	return data, nil
}

func unmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("backup: decode manifest: %w", err)
	}
	return &m, nil
}

// WriteFiles puts extracted upload files back under uploadDir
func (c *ArchiveContents) WriteFiles(uploadDir string) (int, error) {
	written := 0
	for rel, data := range c.Files {
		clean := filepath.Clean("/" + filepath.FromSlash(rel))
		dst := filepath.Join(uploadDir, clean)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fmt.Errorf("backup: restore upload dir: %w", err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("backup: write upload %q: %w", rel, err)
		}
		written++
	}
	return written, nil
}
