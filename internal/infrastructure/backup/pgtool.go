package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	infraconfig "github.com/pms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// PGTool shells out to the PostgreSQL client binaries for binary dumps
// and restores. The JSON path stays available when the binaries are not
// installed.
type PGTool struct {
	db     *infraconfig.DatabaseConfig
	cfg    *infraconfig.BackupConfig
	logger *zap.Logger
}

// NewPGTool creates a PGTool
func NewPGTool(db *infraconfig.DatabaseConfig, cfg *infraconfig.BackupConfig, logger *zap.Logger) *PGTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PGTool{db: db, cfg: cfg, logger: logger}
}

// Available reports whether pg_dump can be found on this host
func (t *PGTool) Available() bool {
	_, err := exec.LookPath(t.cfg.PGDumpPath)
	return err == nil
}

// PSQLAvailable reports whether psql can be found on this host
func (t *PGTool) PSQLAvailable() bool {
	_, err := exec.LookPath(t.cfg.PSQLPath)
	return err == nil
}

func (t *PGTool) env() []string {
	return append(os.Environ(), "PGPASSWORD="+t.db.Password)
}

func (t *PGTool) connArgs() []string {
	return []string{
		"--host", t.db.Host,
		"--port", strconv.Itoa(t.db.Port),
		"--username", t.db.User,
		"--no-password",
	}
}

// Dump runs pg_dump in custom format and returns the dump bytes
func (t *PGTool) Dump(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.CommandTimeout)
	defer cancel()

	args := append(t.connArgs(), "--format", "custom", "--no-owner", "--no-privileges", t.db.DBName)
	cmd := exec.CommandContext(ctx, t.cfg.PGDumpPath, args...)
	cmd.Env = t.env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Info("Running pg_dump", zap.String("database", t.db.DBName))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("backup: pg_dump failed: %w: %s", err, stderr.String())
	}
	out := stdout.Bytes()
	if !IsPGDump(out) {
		return nil, fmt.Errorf("backup: pg_dump produced unexpected output")
	}
	return out, nil
}

// Restore replays a custom-format dump with pg_restore. Existing objects
// are dropped first so the database matches the dump.
func (t *PGTool) Restore(ctx context.Context, dump []byte) error {
	if !IsPGDump(dump) {
		return fmt.Errorf("backup: not a pg_dump custom-format file")
	}
	ctx, cancel := context.WithTimeout(ctx, t.cfg.RestoreTimeout)
	defer cancel()

	args := append(t.connArgs(),
		"--dbname", t.db.DBName,
		"--clean", "--if-exists",
		"--no-owner", "--no-privileges",
		"--single-transaction",
	)
	cmd := exec.CommandContext(ctx, t.cfg.PGRestorePath, args...)
	cmd.Env = t.env()
	cmd.Stdin = bytes.NewReader(dump)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t.logger.Info("Running pg_restore", zap.String("database", t.db.DBName))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("backup: pg_restore failed: %w: %s", err, stderr.String())
	}
	return nil
}

// Exec replays a plain-SQL script through psql, used for plain-format
// database.sql archive entries
func (t *PGTool) Exec(ctx context.Context, script string) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.CommandTimeout)
	defer cancel()

	args := append(t.connArgs(),
		"--dbname", t.db.DBName,
		"--quiet",
		"--set", "ON_ERROR_STOP=1",
	)
	cmd := exec.CommandContext(ctx, t.cfg.PSQLPath, args...)
	cmd.Env = t.env()
	cmd.Stdin = bytes.NewReader([]byte(script))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("backup: psql failed: %w: %s", err, stderr.String())
	}
	return nil
}
