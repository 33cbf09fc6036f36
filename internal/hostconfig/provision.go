package hostconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentdeck/provisioner/internal/logging"
)

// Provisioner merges rendered provider entries into the host configuration
// file at TargetPath. The target is shared, externally-owned state: the
// provisioner takes no lock and assumes it is the only writer for the
// duration of one call.
type Provisioner struct {
	TargetPath string
	// Now supplies backup timestamps; overridable in tests.
	Now func() time.Time
	Log zerolog.Logger
}

// NewProvisioner returns a Provisioner for the given target path.
func NewProvisioner(targetPath string) *Provisioner {
	return &Provisioner{
		TargetPath: targetPath,
		Now:        time.Now,
		Log:        logging.With().Str("component", "provision").Logger(),
	}
}

// Result describes what a provisioning run did.
type Result struct {
	TargetPath string
	// BackupPath is empty when no backup was taken (absent or empty
	// existing registry, or a failed best-effort backup write).
	BackupPath string
	Added      int
	Replaced   int
	Kept       int
}

// Provision reads the existing document, backs it up when it already has
// provider entries, merges rendered in, and writes the final document.
//
// A missing target is an empty shell, not an error. A present but
// unparseable target is fatal: the operator must resolve the conflict, the
// provisioner never silently discards host state. Backup failure is logged
// and does not block the merge.
func (p *Provisioner) Provision(rendered *Document) (*Result, error) {
	existing := NewDocument()

	raw, err := os.ReadFile(p.TargetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First provisioning run.
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", p.TargetPath, err)
	default:
		existing, err = Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("existing configuration at %s is unreadable, refusing to overwrite: %w", p.TargetPath, err)
		}
	}

	result := &Result{TargetPath: p.TargetPath}

	if len(existing.Servers) > 0 {
		backupPath := fmt.Sprintf("%s.backup.%d", p.TargetPath, p.Now().UnixMilli())
		if err := os.WriteFile(backupPath, raw, 0644); err != nil {
			// Losing a backup is less harmful than failing to provision.
			p.Log.Warn().Err(err).Str("path", backupPath).Msg("failed to write backup")
		} else {
			result.BackupPath = backupPath
			p.Log.Info().Str("path", backupPath).Msg("backed up existing configuration")
		}
	}

	final := Merge(existing, rendered)

	for name := range rendered.Servers {
		if _, ok := existing.Servers[name]; ok {
			result.Replaced++
		} else {
			result.Added++
		}
	}
	result.Kept = len(final.Servers) - result.Added - result.Replaced

	if err := writeDocument(p.TargetPath, final); err != nil {
		return nil, err
	}

	p.Log.Info().
		Str("path", p.TargetPath).
		Int("added", result.Added).
		Int("replaced", result.Replaced).
		Int("kept", result.Kept).
		Msg("wrote configuration")
	return result, nil
}

// writeDocument persists doc atomically: full write to a temp sibling, then
// rename over the target. Parent directories are created as needed.
func writeDocument(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
