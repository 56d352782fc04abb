package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/security"
	"github.com/codewithboateng/jstyle/internal/shared"
	"github.com/codewithboateng/jstyle/internal/storage"
)

var (
	userName     string
	userPassword string
	userRole     string
	userDB       string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage dashboard users",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dashboard user",
	RunE:  runUsersCreate,
}

func init() {
	usersCreateCmd.Flags().StringVar(&userName, "username", "", "Login name")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (prompted on stdin when omitted)")
	usersCreateCmd.Flags().StringVar(&userRole, "role", "member", "Role: member or admin")
	usersCreateCmd.Flags().StringVar(&userDB, "db", "", "SQLite database path")
	_ = usersCreateCmd.MarkFlagRequired("username")
	usersCmd.AddCommand(usersCreateCmd)
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if userRole != storage.RoleMember && userRole != storage.RoleAdmin {
		return fmt.Errorf("bad role %q (want member or admin)", userRole)
	}
	pw := userPassword
	if pw == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimSpace(line)
	}
	if pw == "" {
		return fmt.Errorf("empty password")
	}

	dbPath := userDB
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	hash, err := security.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	id, err := db.CreateUser(userName, hash, userRole)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Printf("User OK\n  id=%d username=%s role=%s\n", id, userName, userRole)
	return nil
}
