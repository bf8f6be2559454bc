package index

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockWait bounds how long Load waits for a concurrent eupdatedb run.
const lockWait = 2 * time.Second

// Load reads an index from dir containing the manifest and the records file.
//
// An unreadable directory or manifest wraps ErrIndexMissing; a manifest older
// than MinDBVersion wraps ErrIndexOutOfDate. Records are returned in file order.
func Load(dir string) (*Index, error) {
	manifestPath := filepath.Join(dir, manifestFile)
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w (cannot read %s: %v)", ErrIndexMissing, manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w (invalid manifest JSON %s: %v)", ErrIndexOutOfDate, manifestPath, err)
	}
	if m.DBVersion < MinDBVersion {
		return nil, fmt.Errorf("%w (index version %d, need %d)", ErrIndexOutOfDate, m.DBVersion, MinDBVersion)
	}
	if m.RecordsFile == "" {
		m.RecordsFile = recordsFile
	}

	path := filepath.Join(dir, m.RecordsFile)
	unlock, err := readLock(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := loadRecords(path)
	if err != nil {
		return nil, err
	}
	return &Index{Manifest: m, Records: records}, nil
}

func loadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w (cannot open records file %s: %v)", ErrIndexMissing, path, err)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("invalid records JSONL %s: %w", path, err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read records file %s: %w", path, err)
	}
	return out, nil
}

// readLock takes a shared lock on path so a writer holding the exclusive
// lock finishes before we read.
func readLock(path string) (func(), error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (missing %s)", ErrIndexMissing, path)
		}
		return nil, fmt.Errorf("%w (cannot stat %s: %v)", ErrIndexMissing, path, err)
	}
	l := flock.New(path, flock.SetFlag(os.O_RDONLY))
	deadline := time.Now().Add(lockWait)
	for {
		locked, err := l.TryRLock()
		if err != nil {
			// Read-only media or foreign filesystems may refuse locks; read anyway.
			return func() {}, nil
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("index is being rebuilt (lock: %s), try again shortly", path)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
