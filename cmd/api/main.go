// Package main is the entry point for the Eventure API server and its
// operational commands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/server"
	"github.com/eventure/eventure-api/internal/utils"
	"github.com/eventure/eventure-api/migrations"
	"github.com/eventure/eventure-api/scripts"
)

// Build metadata, set through linker flags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// A missing .env is fine; configuration may come from the environment.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "eventure",
		Short:         "Eventure event discovery API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", constants.DefaultConfigPath, "Path to configuration file")

	cmd.AddCommand(newServeCommand(&configPath))
	cmd.AddCommand(newMigrateCommand(&configPath))
	cmd.AddCommand(newCreateAdminCommand(&configPath))
	cmd.AddCommand(newImportZipsCommand(&configPath))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	withMigrator := func(run func(ctx context.Context, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			return withDatabase(ctx, *configPath, func(db *database.Pool) error {
				m, err := migrations.NewMigrator(db.DB)
				if err != nil {
					return err
				}
				return run(ctx, m)
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
			return m.Up(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
			return m.Down(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), statuses)
		}),
	})
	return cmd
}

func newCreateAdminCommand(configPath *string) *cobra.Command {
	var seed scripts.AdminSeed

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			return withDatabase(ctx, *configPath, func(db *database.Pool) error {
				user, err := scripts.NewSeeder(db).CreateAdmin(ctx, seed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&seed.Email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&seed.Password, "password", "", "Admin password")
	cmd.Flags().StringVar(&seed.FirstName, "first-name", "", "Admin first name")
	cmd.Flags().StringVar(&seed.LastName, "last-name", "", "Admin last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newImportZipsCommand(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-zips",
		Short: "Load ZIP code centroids from a zip_code,lat,lng CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			ctx := commandContext(cmd)
			return withDatabase(ctx, *configPath, func(db *database.Pool) error {
				n, err := scripts.NewSeeder(db).ImportZipLocations(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d zip locations\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Eventure API\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting Eventure API")

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}

// loadConfig reads configuration and initializes logging and validation.
func loadConfig(configPath string) (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)
	utils.InitValidator()
	return cfg, nil
}

// withDatabase runs fn against a database opened from configuration.
func withDatabase(ctx context.Context, configPath string, fn func(db *database.Pool) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printStatus(w io.Writer, statuses []migrations.Status) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, s := range statuses {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return tw.Flush()
}
