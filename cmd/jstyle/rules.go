package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/shared"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules the current config would run",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	for _, r := range reg.All() {
		fmt.Printf("%-14s %-8s %-24s %s\n", r.ID, r.DefaultSeverity, strings.Join(r.Kinds, ","), r.Summary)
	}
	return nil
}
