package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/reporting"
	"github.com/codewithboateng/jstyle/internal/shared"
	"github.com/codewithboateng/jstyle/internal/storage"
)

var (
	reportRunID string
	reportOut   string
	reportDB    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-emit report artifacts for a stored run",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "latest", "Run id, or \"latest\"")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output directory")
	reportCmd.Flags().StringVar(&reportDB, "db", "", "SQLite database path")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	outDir := reportOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	dbPath := reportDB
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var run ir.Run
	if reportRunID == "" || reportRunID == "latest" {
		run, err = db.LoadLatestRun()
	} else {
		run, err = db.LoadRun(reportRunID)
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	jsonPath, err := reporting.WriteJSON(run.ID, outDir, &run)
	if err != nil {
		return err
	}
	htmlPath, err := reporting.WriteHTML(run.ID, outDir, &run)
	if err != nil {
		return err
	}
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
	return nil
}
