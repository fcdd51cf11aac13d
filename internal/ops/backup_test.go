package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todofast/internal/kv"
	"todofast/internal/task"
)

func writeStorage(t *testing.T, dir string, entries ...string) {
	t.Helper()
	store, err := kv.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.SetList("tasks", entries); err != nil {
		t.Fatalf("set list: %v", err)
	}
}

func encodeTask(t *testing.T, text string) string {
	t.Helper()
	s, err := task.Encode(task.New(text, time.Now()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeStorage(t, src, encodeTask(t, "laundry"), encodeTask(t, "dishes"))

	archive := filepath.Join(t.TempDir(), "backup.json.gz")
	if err := BackupStorage(src, archive); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("archive missing: %v", err)
	}

	target := filepath.Join(t.TempDir(), "restored")
	if err := RestoreStorage(archive, target); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	want, err := os.ReadFile(filepath.Join(src, StorageFileName))
	if err != nil {
		t.Fatalf("read source document: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(target, StorageFileName))
	if err != nil {
		t.Fatalf("read restored document: %v", err)
	}
	if string(want) != string(got) {
		t.Fatalf("restored document differs from source:\nwant %s\ngot  %s", want, got)
	}
}

func TestBackup_MissingStorageFile(t *testing.T) {
	if err := BackupStorage(t.TempDir(), filepath.Join(t.TempDir(), "out.json.gz")); err == nil {
		t.Fatal("expected error for missing storage document")
	}
}

func TestRestore_RejectsCorruptArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.json.gz")
	if err := os.WriteFile(archive, []byte("this is not gzip"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	target := filepath.Join(t.TempDir(), "restored")
	if err := RestoreStorage(archive, target); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
	if _, err := os.Stat(filepath.Join(target, StorageFileName)); !os.IsNotExist(err) {
		t.Fatalf("corrupt archive must not produce a storage document, stat err=%v", err)
	}
}

func TestVerifyStorage_CountsCorruptEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	writeStorage(t, dir, encodeTask(t, "good"), "not-json", encodeTask(t, "also good"))

	reports, err := VerifyStorage(dir)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected one key, got %d", len(reports))
	}
	rep := reports[0]
	if rep.Key != "tasks" || rep.Entries != 3 || rep.Corrupt != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}
