package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/icuscore/icuscore/internal/config"
	"github.com/icuscore/icuscore/internal/domain/anthropometry"
	"github.com/icuscore/icuscore/internal/domain/medication"
	"github.com/icuscore/icuscore/internal/domain/observation"
	"github.com/icuscore/icuscore/internal/domain/sofa"
	"github.com/icuscore/icuscore/internal/domain/stay"
	"github.com/icuscore/icuscore/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sofa-engine",
		Short: "Hourly organ-failure scoring over ICU data",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(stayCmd())
	rootCmd.AddCommand(covariatesCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Score every stay and replace the output table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoring()
		},
	}
}

func stayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stay <stay-id>",
		Short: "Score a single stay and print its hourly rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stayID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid stay id %q", args[0])
			}
			return scoreOne(stayID)
		},
	}
}

func covariatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "covariates <stay-id>",
		Short: "Show the weight segments and height behind a stay's dose normalization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stayID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid stay id %q", args[0])
			}
			return showCovariates(stayID)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	return logger
}

func newService(pool *pgxpool.Pool, logger zerolog.Logger, workers int) *sofa.Service {
	deps := sofa.Dependencies{
		Stays:       stay.NewRepoPG(pool),
		Vitals:      observation.NewVitalsRepoPG(pool),
		GCS:         observation.NewGCSRepoPG(pool),
		Labs:        observation.NewLabRepoPG(pool),
		BloodGas:    observation.NewBloodGasRepoPG(pool),
		Ventilation: observation.NewVentilationRepoPG(pool),
		UrineOutput: observation.NewUrineOutputRepoPG(pool),
		Infusions:   medication.NewRepoPG(pool),
		Bodies:      anthropometry.NewRepoPG(pool),
		Scores:      sofa.NewScoreRepoPG(pool),
	}
	return sofa.NewService(deps, logger, workers)
}

func runScoring() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// every pass gets its own id so interleaved runs stay attributable
	logger := newLogger(cfg).With().Str("run_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()

	if err := db.Check(ctx, pool); err != nil {
		logger.Error().Err(err).Msg("database health check failed")
		return err
	}
	logger.Info().Msg("connected to database")

	svc := newService(pool, logger, cfg.Workers)
	if _, err := svc.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("scoring pass failed")
		return err
	}

	stats := db.GetPoolStats(pool)
	logger.Debug().
		Int32("total_conns", stats.TotalConns).
		Int32("max_conns", stats.MaxConns).
		Int64("acquires", stats.AcquireCount).
		Str("acquire_wait", stats.AcquireDuration).
		Msg("connection pool after pass")
	return nil
}

func scoreOne(stayID int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	stays := stay.NewRepoPG(pool)
	st, err := stays.GetByID(ctx, stayID)
	if err != nil {
		return err
	}

	svc := newService(pool, logger, cfg.Workers)
	rows, err := svc.ScoreStay(ctx, *st)
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %-17s %-5s %-5s %-6s %-7s %-4s %-6s %s\n",
		"HR", "ENDTIME", "RESP", "COAG", "LIVER", "CARDIO", "CNS", "RENAL", "TOTAL")
	for _, row := range rows {
		fmt.Printf("%-5d %-17s %-5d %-5d %-6d %-7d %-4d %-6d %d\n",
			row.Hr,
			row.EndTime.Format("2006-01-02 15:04"),
			row.Respiration24h, row.Coagulation24h, row.Liver24h,
			row.Cardiovascular24h, row.CNS24h, row.Renal24h,
			row.TotalScore)
	}
	return nil
}

func showCovariates(stayID int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	stays := stay.NewRepoPG(pool)
	st, err := stays.GetByID(ctx, stayID)
	if err != nil {
		return err
	}

	svc := newService(pool, logger, cfg.Workers)
	cov, err := svc.Covariates(ctx, *st)
	if err != nil {
		return err
	}

	if cov.HeightCm != nil {
		fmt.Printf("Height: %.1f cm\n", *cov.HeightCm)
	} else {
		fmt.Println("Height: unknown")
	}
	fmt.Printf("%-17s %-17s %s\n", "FROM", "TO", "KG")
	for _, seg := range cov.WeightSegments {
		fmt.Printf("%-17s %-17s %.1f\n",
			seg.StartTime.Format("2006-01-02 15:04"),
			seg.EndTime.Format("2006-01-02 15:04"),
			seg.WeightKg)
	}
	return nil
}
