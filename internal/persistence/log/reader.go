package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
)

// ErrStop ends a scan early without reporting an error.
var ErrStop = errors.New("stop")

func EventsDir(worldDir string) string { return filepath.Join(worldDir, "events") }

// ListEventFiles returns the tick log files under worldDir in chronological
// order. The hour stamp in the file name sorts lexically.
func ListEventFiles(worldDir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(EventsDir(worldDir), "events-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ScanJSONL decodes every line of a .jsonl.zst file and hands the raw bytes
// to fn. Returning ErrStop from fn ends the scan cleanly.
func ScanJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		if err := fn(b); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
	}
	return sc.Err()
}

// ScanTicks walks every recorded tick entry under worldDir in file order.
func ScanTicks(worldDir string, fn func(world.TickLogEntry) error) error {
	files, err := ListEventFiles(worldDir)
	if err != nil {
		return err
	}
	stopped := false
	for _, path := range files {
		err := ScanJSONL(path, func(line []byte) error {
			var e world.TickLogEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return err
			}
			if err := fn(e); err != nil {
				if errors.Is(err, ErrStop) {
					stopped = true
				}
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}
