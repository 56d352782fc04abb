package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/reporting"
	"github.com/codewithboateng/jstyle/internal/shared"
	"github.com/codewithboateng/jstyle/internal/storage"
)

var (
	diffBase string
	diffHead string
	diffOut  string
	diffDB   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two stored runs",
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffBase, "base", "", "Base run id")
	diffCmd.Flags().StringVar(&diffHead, "head", "", "Head run id")
	diffCmd.Flags().StringVar(&diffOut, "out", "", "Output directory")
	diffCmd.Flags().StringVar(&diffDB, "db", "", "SQLite database path")
	_ = diffCmd.MarkFlagRequired("base")
	_ = diffCmd.MarkFlagRequired("head")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	outDir := diffOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	dbPath := diffDB
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	br, err := db.LoadRun(diffBase)
	if err != nil {
		return fmt.Errorf("load base run: %w", err)
	}
	hr, err := db.LoadRun(diffHead)
	if err != nil {
		return fmt.Errorf("load head run: %w", err)
	}

	path, err := reporting.WriteDiffJSON(diffBase, diffHead, outDir, &br, &hr)
	if err != nil {
		return err
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return nil
}
