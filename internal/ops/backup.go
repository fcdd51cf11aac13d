// Package ops holds offline tooling for the todofast storage document:
// gzip snapshots, restores, and an integrity check that decodes every
// persisted task entry.
package ops

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"todofast/internal/task"
)

// StorageFileName matches the document written by kv.FileStore.
const StorageFileName = "storage.json"

// BackupStorage snapshots the storage document under dataDir into a gzip
// archive at archivePath. The document is a complete snapshot by design, so
// one file is the whole backup.
func BackupStorage(dataDir, archivePath string) error {
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return fmt.Errorf("dataDir and archivePath are required")
	}

	src, err := os.Open(filepath.Join(dataDir, StorageFileName))
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	gz.Name = StorageFileName
	if _, err := io.Copy(gz, src); err != nil {
		_ = gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return dst.Close()
}

// RestoreStorage unpacks a backup archive into dataDir, replacing any
// existing storage document. The restored document is verified before the
// existing one is touched; a corrupt archive never clobbers live data.
func RestoreStorage(archivePath, dataDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	if archivePath == "" || dataDir == "" {
		return fmt.Errorf("archivePath and dataDir are required")
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	doc, err := io.ReadAll(gz)
	if err != nil {
		return err
	}
	if _, err := verifyDocument(doc); err != nil {
		return fmt.Errorf("archive %s: %w", archivePath, err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, StorageFileName), doc, 0o644)
}

// Report summarizes one storage key after verification.
type Report struct {
	Key     string `json:"key"`
	Entries int    `json:"entries"`
	Corrupt int    `json:"corrupt"`
}

// VerifyStorage parses the storage document under dataDir and attempts to
// decode every task entry, reporting per-key totals. Corrupt entries are
// counted, not fatal: the server skips them on load the same way.
func VerifyStorage(dataDir string) ([]Report, error) {
	doc, err := os.ReadFile(filepath.Join(filepath.Clean(strings.TrimSpace(dataDir)), StorageFileName))
	if err != nil {
		return nil, err
	}
	return verifyDocument(doc)
}

func verifyDocument(doc []byte) ([]Report, error) {
	var state struct {
		Lists map[string][]string `json:"lists"`
	}
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, fmt.Errorf("storage document is not valid JSON: %w", err)
	}

	reports := make([]Report, 0, len(state.Lists))
	for key, values := range state.Lists {
		rep := Report{Key: key, Entries: len(values)}
		for _, v := range values {
			if _, err := task.Decode(v); err != nil {
				rep.Corrupt++
			}
		}
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Key < reports[j].Key })
	return reports, nil
}
