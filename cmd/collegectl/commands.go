package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/sahilchouksey/thats-my-college/app"
	"github.com/sahilchouksey/thats-my-college/config"
	"github.com/sahilchouksey/thats-my-college/database"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/services/cron"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// withDatabase bootstraps config, logger and a migrated database for one command
func withDatabase(fn func(ctx context.Context, cfg *config.Config, log *zap.Logger, store *database.GORMStore) error) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		cfg, log, err := app.Bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := app.OpenDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		return fn(ctx, cfg, log, store)
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update every table",
		Action: withDatabase(func(_ context.Context, _ *config.Config, log *zap.Logger, _ *database.GORMStore) error {
			log.Info("migrations applied")
			return nil
		}),
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the super admin account",
		Description: `Creates a SUPER_ADMIN user, or grants the role to an existing account
with the same email. Credentials default to SUPER_ADMIN_EMAIL and
SUPER_ADMIN_PASSWORD.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "email",
				Usage: "Super admin email (default: $SUPER_ADMIN_EMAIL)",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Super admin password (default: $SUPER_ADMIN_PASSWORD)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withDatabase(func(ctx context.Context, cfg *config.Config, log *zap.Logger, store *database.GORMStore) error {
				email := firstNonEmpty(cmd.String("email"), cfg.SuperAdminEmail)
				password := firstNonEmpty(cmd.String("password"), cfg.SuperAdminPassword)

				seeder := database.NewSeeder(repository.NewUserRepository(store.GetDB()), auth.NewHasher(auth.DefaultCost), log)
				changed, err := seeder.SeedSuperAdmin(ctx, email, password)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Println("super admin already present")
				}
				return nil
			})(ctx, cmd)
		},
	}
}

func sweepCmd() *cli.Command {
	jobNames := []string{cron.JobPurgeExpiredCallbacks, cron.JobSweepOrphanCourses, cron.JobCleanupTokenBlacklist}

	return &cli.Command{
		Name:  "sweep",
		Usage: "Run the background cleanup jobs once",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "job",
				Usage: fmt.Sprintf("Job to run, repeatable (supported values: %v). Runs all when omitted", jobNames),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			selected := cmd.StringSlice("job")
			for _, j := range selected {
				if !slices.Contains(jobNames, j) {
					return fmt.Errorf("unknown job: %q", j)
				}
			}

			return withDatabase(func(_ context.Context, cfg *config.Config, log *zap.Logger, store *database.GORMStore) error {
				db := store.GetDB()
				blacklist := auth.NewBlacklistService(db)
				svc := services.NewSet(
					app.Repositories(db, blacklist),
					auth.NewJWTManager(auth.JWTConfigFrom(cfg)),
					auth.NewHasher(auth.DefaultCost),
					queue.NewEventBus(nil, log),
					services.Options{CallbackLimit: cfg.CallbackRequestLimit, CallbackTTL: cfg.CallbackRequestTTL()},
					log,
				)

				manager := cron.NewCronManager(db, log)
				for _, job := range cron.DefaultJobs(svc.Callbacks, svc.Courses, blacklist) {
					if len(selected) > 0 && !slices.Contains(selected, job.Name) {
						continue
					}
					affected, err := manager.RunJob(job)
					if err != nil {
						return fmt.Errorf("%s: %w", job.Name, err)
					}
					fmt.Printf("%s: %d rows\n", job.Name, affected)
				}
				return nil
			})(ctx, cmd)
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
