package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const upStub = `-- Migration: %s
-- Created: %s

-- Write the UP migration SQL here

`

const downStub = `-- Migration: %s (rollback)
-- Created: %s

-- Write the DOWN migration SQL here

`

// FilePair is the up/down file pair of a newly scaffolded migration
type FilePair struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

var nameCleaner = regexp.MustCompile(`[^a-z0-9_]+`)

func sanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = nameCleaner.ReplaceAllString(s, "")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "migration"
	}
	return s
}

// Create scaffolds an empty up/down migration pair. Versions are second
// resolution timestamps so files sort in creation order.
func Create(migrationsDir, name string) (*FilePair, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("migration: create directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	pair := &FilePair{
		Version:  version,
		Name:     name,
		UpPath:   filepath.Join(migrationsDir, base+".up.sql"),
		DownPath: filepath.Join(migrationsDir, base+".down.sql"),
	}

	stamp := now.Format(time.RFC3339)
	if err := os.WriteFile(pair.UpPath, []byte(fmt.Sprintf(upStub, name, stamp)), 0o644); err != nil {
		return nil, fmt.Errorf("migration: write up file: %w", err)
	}
	if err := os.WriteFile(pair.DownPath, []byte(fmt.Sprintf(downStub, name, stamp)), 0o644); err != nil {
		_ = os.Remove(pair.UpPath)
		return nil, fmt.Errorf("migration: write down file: %w", err)
	}
	return pair, nil
}
