package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"todofast/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backup":
		if err := cmdBackup(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "backup failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	case "verify":
		if err := cmdVerify(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "verify failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.json.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "todofast-"+ts+".json.gz")
	}

	if err := ops.BackupStorage(*dataDir, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.json.gz)")
	target := fs.String("data-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.RestoreStorage(*archive, *target)
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reports, err := ops.VerifyStorage(*dataDir)
	if err != nil {
		return err
	}
	for _, rep := range reports {
		fmt.Printf("%s: %d entries, %d corrupt\n", rep.Key, rep.Entries, rep.Corrupt)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: ops <command> [flags]

commands:
  backup   snapshot the storage document into a gzip archive
  restore  unpack a backup archive into a data directory
  verify   decode every persisted task entry and report totals`)
}
