package savefile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Store writes a new save, first archiving the file it replaces into
// `backups/<last_save>.json.zst` next to it. keep bounds how many archives
// survive; keep <= 0 disables archiving entirely.
func Store(path string, s SaveV1, keep int) error {
	if keep > 0 {
		if err := archivePrevious(path); err != nil {
			// A failed backup must never block the save itself.
			fmt.Fprintf(os.Stderr, "savefile: backup failed: %v\n", err)
		}
		pruneBackups(backupDir(path), keep)
	}
	return Write(path, s)
}

func backupDir(path string) string {
	return filepath.Join(filepath.Dir(path), "backups")
}

func archivePrevious(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Name the archive by the save's own last_save stamp when readable.
	stamp := time.Now().Unix()
	if prev, err := Read(path); err == nil && prev.LastSave > 0 {
		stamp = int64(prev.LastSave)
	}

	dir := backupDir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(dir, fmt.Sprintf("%d.json.zst", stamp))

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func pruneBackups(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".zst" {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		_ = os.Remove(filepath.Join(dir, n))
	}
}

// ReadBackup decompresses one archived save.
func ReadBackup(path string) (SaveV1, error) {
	var s SaveV1
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return s, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}
