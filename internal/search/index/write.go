package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Write is the writer side of the manifest contract Load reads: records first
// under the exclusive lock on the records file, then the manifest. eupdatedb
// owns real index builds; esearch uses Write to produce test fixtures.
func Write(dir string, manifest Manifest, records []Record) error {
	if manifest.DBVersion <= 0 {
		return fmt.Errorf("invalid db version: %d", manifest.DBVersion)
	}
	if manifest.RecordsFile == "" {
		manifest.RecordsFile = recordsFile
	}
	if manifest.CreatedAt == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, manifest.RecordsFile)
	l := flock.New(path)
	if err := l.Lock(); err != nil {
		return fmt.Errorf("cannot lock records file %s: %w", path, err)
	}
	defer func() { _ = l.Unlock() }()

	// records jsonl
	rf, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot create records file: %w", err)
	}
	bw := bufio.NewWriter(rf)
	for _, r := range records {
		line, err := json.Marshal(r)
		if err != nil {
			_ = rf.Close()
			return err
		}
		if _, err := bw.Write(line); err != nil {
			_ = rf.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = rf.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = rf.Close()
		return err
	}
	if err := rf.Close(); err != nil {
		return err
	}

	// manifest last, so a reader never sees a manifest without its records
	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	return nil
}
