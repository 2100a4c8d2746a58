package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"kharchapal/internal/store"
)

// BackupVersion is the format version written by Export
const BackupVersion = "1.0"

// BackupData is the complete record store backup structure
type BackupData struct {
	Version       string                       `json:"version"`
	ExportedAt    time.Time                    `json:"exported_at"`
	DatabaseType  string                       `json:"database_type"`
	SchemaVersion int                          `json:"schema_version"`
	Collections   map[string][]json.RawMessage `json:"collections"`
}

// BackupService handles record store export and restore
type BackupService struct {
	store *store.Store
}

// NewBackupService creates a new backup service
func NewBackupService(s *store.Store) *BackupService {
	return &BackupService{store: s}
}

// Export writes every collection of the store to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting record store export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(ctx, file)
}

// ExportToWriter writes every collection of the store to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:       BackupVersion,
		ExportedAt:    time.Now(),
		DatabaseType:  s.store.DialectName(),
		SchemaVersion: s.store.Version(),
		Collections:   make(map[string][]json.RawMessage),
	}

	total := 0
	for _, name := range s.store.Collections() {
		records, err := s.store.GetAll(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		backup.Collections[name] = records
		total += len(records)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported %d records from %d collections", total, len(backup.Collections))
	return nil
}

// Import restores records from inputPath. Existing records with the same
// id are replaced; with clear set, every collection is emptied first.
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	log.Printf("Starting record store import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores records from r in a single batch
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, schema version: %d, exported at: %s", backup.Version, backup.SchemaVersion, backup.ExportedAt)
	if backup.SchemaVersion > s.store.Version() {
		return fmt.Errorf("backup schema version %d is newer than store version %d", backup.SchemaVersion, s.store.Version())
	}

	known := make(map[string]bool)
	for _, name := range s.store.Collections() {
		known[name] = true
	}

	total := 0
	err := s.store.Update(ctx, func(h store.Handle) error {
		if clear {
			for name := range known {
				if err := h.Clear(ctx, name); err != nil {
					return fmt.Errorf("failed to clear %s: %w", name, err)
				}
			}
		}
		for name, records := range backup.Collections {
			if !known[name] {
				log.Printf("Skipping unknown collection %s in backup", name)
				continue
			}
			for _, rec := range records {
				if err := h.Put(ctx, name, rec); err != nil {
					return fmt.Errorf("failed to import %s: %w", name, err)
				}
				total++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Imported %d records", total)
	return nil
}
