package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/van-william/carbon-sub017/internal/infrastructure/migration"
	"go.uber.org/zap"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect the database schema",
	Long: `Run golang-migrate over the SQL files in the migrations directory.

Available subcommands:
  up       - apply every pending migration
  down     - revert every migration
  steps N  - apply N migrations (negative reverts)
  version  - print the applied version
  force V  - set the version without running anything
  create   - write the next numbered up/down pair`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var migrateStepsCmd = &cobra.Command{
	Use:   "steps N",
	Short: "Apply N migrations, or revert when N is negative",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, m *migration.Migrator, _ []string) error {
		status, err := m.Status()
		if err != nil {
			return err
		}
		if status.Version == 0 {
			cmd.Println("no migrations applied")
			return nil
		}
		cmd.Printf("version %d (dirty: %t)\n", status.Version, status.Dirty)
		return nil
	}),
}

var migrateForceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < -1 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}),
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create the next numbered migration pair",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateCreate,
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "path", "", "migrations directory (default database.migrations_path)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStepsCmd, migrateVersionCmd, migrateForceCmd, migrateCreateCmd)
}

// resolveMigrationsDir prefers --path, then the configured directory
func resolveMigrationsDir() (string, error) {
	dir := migrationsDir
	if dir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return "", err
		}
		dir = cfg.Database.MigrationsPath
	}
	return filepath.Abs(dir)
}

func runMigrateCreate(cmd *cobra.Command, args []string) error {
	dir, err := resolveMigrationsDir()
	if err != nil {
		return err
	}
	f, err := migration.Create(dir, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("created %s\n", f.UpPath)
	cmd.Printf("created %s\n", f.DownPath)
	return nil
}

type migratorFunc func(cmd *cobra.Command, m *migration.Migrator, args []string) error

// withMigrator opens a Migrator against the configured database for the
// duration of fn
func withMigrator(fn migratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() {
			_ = log.Sync()
		}()

		dir := migrationsDir
		if dir == "" {
			dir = cfg.Database.MigrationsPath
		}
		dir, err = filepath.Abs(dir)
		if err != nil {
			return err
		}

		log.Info("Migration CLI started",
			zap.String("command", cmd.Name()),
			zap.String("migrations_path", dir),
		)

		m, err := migration.NewFromURL(cfg.Database.DSN(), dir, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()
		return fn(cmd, m, args)
	}
}
