package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/YusovID/kanban-service/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var (
	migrationsPath  string
	migrationsTable string
	downSteps       int
)

var rootCmd = &cobra.Command{
	Use:          "migrator",
	Short:        "Apply or roll back the kanban-service schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrate()
		if err != nil {
			return err
		}
		defer closeMigrate(m)

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("no new migrations to apply")
				return nil
			}

			return fmt.Errorf("can't do migrations: %w", err)
		}

		fmt.Println("migrations applied successfully")

		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (all of them unless --steps is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrate()
		if err != nil {
			return err
		}
		defer closeMigrate(m)

		if downSteps > 0 {
			err = m.Steps(-downSteps)
		} else {
			err = m.Down()
		}

		if err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return errors.New("no migrations to roll back")
			}

			return fmt.Errorf("can't down migrations: %w", err)
		}

		fmt.Println("migrations rolled back successfully")

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrate()
		if err != nil {
			return err
		}
		defer closeMigrate(m)

		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied")
				return nil
			}

			return fmt.Errorf("can't read version: %w", err)
		}

		fmt.Printf("version %d (dirty: %t)\n", version, dirty)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", envOr("MIGRATIONS_PATH", "./migrations"), "directory with migration files")
	rootCmd.PersistentFlags().StringVar(&migrationsTable, "table", envOr("MIGRATIONS_TABLE", "schema_migrations"), "migrations bookkeeping table")
	downCmd.Flags().IntVar(&downSteps, "steps", 0, "number of migrations to roll back")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newMigrate() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	m, err := migrate.New(
		"file://"+migrationsPath,
		cfg.Postgres.DSN()+"&x-migrations-table="+migrationsTable,
	)
	if err != nil {
		return nil, fmt.Errorf("can't create new migration: %w", err)
	}

	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		log.Printf("failed to close migrate: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
