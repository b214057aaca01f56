// Package commands implements the yatube command line: the web server plus
// the administrative actions (migrations, groups, users, cache).
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube blog and social posting server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		GroupCmd(),
		UserCmd(),
		CacheCmd(),
		MediaCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger shared by every command.
func bootstrap() (config.AppConfig, error) {
	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		return cfg, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// openDB connects and migrates the schema.
func openDB(cfg config.AppConfig) (*gorm.DB, error) {
	db, err := config.InitDatabase(cfg, models.All()...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
