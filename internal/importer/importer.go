// Package importer bulk-loads exported workout history into the
// database. Export files are JSON arrays of sessions; files already
// imported (tracked in a local SQLite state db) are skipped on re-runs.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corevia/corevia/internal/models"
	"github.com/corevia/corevia/internal/storage"
	"github.com/google/uuid"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed   int
	FilesSkipped     int
	FilesErrored     int
	SessionsInserted int
}

// Importer reads session export files from a directory and inserts them.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Import processes all .json files directly under dir, oldest filename
// first. A file that fails to parse is logged and skipped; a database
// error aborts the run.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)
		if err := imp.importFile(ctx, name, path); err != nil {
			return &imp.stats, err
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		imp.log.Error("stat failed", "file", name, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		imp.log.Error("hash failed", "file", name, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	done, err := imp.state.IsImported(name, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking import state for %s: %w", name, err)
	}
	if done {
		imp.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		imp.log.Error("read failed", "file", name, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	sessions, err := ParseExportFile(data)
	if err != nil {
		imp.log.Error("parse failed", "file", name, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	if imp.dryRun {
		imp.log.Info("would import", "file", name, "sessions", len(sessions))
		imp.stats.FilesProcessed++
		imp.stats.SessionsInserted += len(sessions)
		return nil
	}

	for _, s := range sessions {
		if err := imp.db.InsertSessionAt(ctx, s); err != nil {
			return fmt.Errorf("inserting session from %s: %w", name, err)
		}
		imp.stats.SessionsInserted++
	}

	if err := imp.state.MarkImported(name, info.Size(), hash); err != nil {
		return fmt.Errorf("marking %s imported: %w", name, err)
	}

	imp.log.Info("imported", "file", name, "sessions", len(sessions))
	imp.stats.FilesProcessed++
	return nil
}

// ParseExportFile decodes one export file: a JSON array of sessions.
// Sessions without an ID get a fresh one, and the denormalized
// all-success flag is recomputed from the sets rather than trusted.
func ParseExportFile(data []byte) ([]models.Session, error) {
	var sessions []models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}

	for i := range sessions {
		s := &sessions[i]
		if _, err := models.ParsePart(string(s.Part)); err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		if s.UserID == "" {
			return nil, fmt.Errorf("session %d: missing userId", i)
		}
		if s.Date.IsZero() {
			return nil, fmt.Errorf("session %d: missing date", i)
		}
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.IsAllSuccess = s.MainExercise.AllSuccess()
	}
	return sessions, nil
}
