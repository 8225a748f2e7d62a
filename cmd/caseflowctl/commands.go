package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"caseflow/internal/app"
	"caseflow/internal/config"
	"caseflow/internal/database/migration"
	"caseflow/internal/logging"
	"caseflow/internal/model"
	"caseflow/internal/report"
	"caseflow/internal/service"
)

const (
	Version = "0.1.0"
	appName = "caseflowctl"
)

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Operate the caseflow complaint registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	env := func(cmd *cobra.Command) (*config.AppConfig, *slog.Logger, error) {
		cfg := config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		loc, err := cfg.Location()
		if err != nil {
			return nil, nil, err
		}
		return cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel, loc), nil
	}

	cmd.AddCommand(migrateCmd(env), overdueCmd(env), deadlineCmd(env))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

type envFunc func(cmd *cobra.Command) (*config.AppConfig, *slog.Logger, error)

func migrateCmd(env envFunc) *cobra.Command {
	var unitsFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and optionally seed the unit directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env(cmd)
			if err != nil {
				return err
			}
			if cfg.StoreBackend != app.StorePostgres {
				return fmt.Errorf("migrate needs STORE_BACKEND=%s, got %q", app.StorePostgres, cfg.StoreBackend)
			}
			ctx := cmd.Context()
			rt, err := app.Build(ctx, cfg, logger, app.Options{Migrate: true})
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			if unitsFile == "" {
				unitsFile = cfg.UnitsFile
			}
			if unitsFile == "" {
				return nil
			}
			units, err := migration.LoadUnits(unitsFile)
			if err != nil {
				return err
			}
			if err := migration.SeedUnits(ctx, rt.DB, units); err != nil {
				return err
			}
			logger.Info("units seeded", slog.Int("count", len(units)), slog.String("file", unitsFile))
			return nil
		},
	}
	cmd.Flags().StringVar(&unitsFile, "units", "", "YAML unit directory to upsert; defaults to UNITS_FILE")
	return cmd
}

func overdueCmd(env envFunc) *cobra.Command {
	var (
		unitID string
		xlsx   string
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List open workflow steps past their deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, err := app.Build(ctx, cfg, logger, app.Options{})
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			reports := service.NewReportService(rt.Deps)
			f := service.ReportFilter{UnitID: unitID}

			if xlsx != "" {
				out, err := os.Create(xlsx)
				if err != nil {
					return err
				}
				if err := reports.Export(ctx, report.TypeOverdue, f, out); err != nil {
					out.Close()
					return err
				}
				return out.Close()
			}

			rows, err := reports.Overdue(ctx, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}
	cmd.Flags().StringVar(&unitID, "unit", "", "Only steps held by this unit")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write an XLSX workbook to this path instead of JSON")
	return cmd
}

func deadlineCmd(env envFunc) *cobra.Command {
	var (
		priority string
		from     string
	)

	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Compute the processing deadline for a priority under the configured SLA policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := env(cmd)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			policy, err := app.Policy(cfg.SLA)
			if err != nil {
				return err
			}

			assigned := time.Now().In(loc)
			if from != "" {
				assigned, err = time.ParseInLocation("2006-01-02", from, loc)
				if err != nil {
					return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
				}
			}
			due, err := policy.Compute(assigned, model.Priority(priority))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), due.In(loc).Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityNormal), "urgent, normal or low")
	cmd.Flags().StringVar(&from, "from", "", "Assignment date (YYYY-MM-DD); defaults to now")
	return cmd
}
