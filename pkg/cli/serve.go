package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/cli/config"
	httpctrl "github.com/mopc-lab/expropia/pkg/controller/http"
	"github.com/mopc-lab/expropia/pkg/service/worker"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var noAuthUID string
	var overdueInterval time.Duration
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack
	var storageCfg config.Storage
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("EXPROPIA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("EXPROPIA_NO_AUTH"),
			Destination: &noAuthUID,
		},
		&cli.DurationFlag{
			Name:        "overdue-scan-interval",
			Usage:       "Interval between overdue task scans",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("EXPROPIA_OVERDUE_SCAN_INTERVAL"),
			Destination: &overdueInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			closeSentry, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer closeSentry()

			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			wf, err := appCfg.Workflow()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			storageSvc, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize storage")
			}
			defer func() {
				if err := storageSvc.Close(); err != nil {
					logging.Default().Error("failed to close storage", "error", err.Error())
				}
			}()

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack service")
			}

			var authUC usecase.AuthUseCaseInterface
			if noAuthUID != "" {
				logging.Default().Warn("Running in no-auth mode (development only)", "user_id", noAuthUID)
				authUC = usecase.NewNoAuthnUseCase(repo, noAuthUID, "", noAuthUID)
			} else {
				authUC = usecase.NewAuthUseCase(repo)
			}

			ucOpts := []usecase.Option{
				usecase.WithWorkflow(wf),
				usecase.WithStorage(storageSvc),
				usecase.WithAuth(authUC),
			}
			if docTypes := appCfg.DomainDocumentTypes(); docTypes != nil {
				ucOpts = append(ucOpts, usecase.WithDocumentTypes(docTypes))
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc))
			}

			uc := usecase.New(repo, ucOpts...)

			if err := seedMatrices(ctx, uc, &appCfg); err != nil {
				return goerr.Wrap(err, "failed to seed approval matrices")
			}

			// Start overdue task worker
			workerOpts := []worker.WorkerOption{}
			if slackSvc != nil {
				workerOpts = append(workerOpts, worker.WithSlack(slackSvc))
			}
			overdueWorker := worker.NewOverdueTaskWorker(repo, overdueInterval, workerOpts...)
			if err := overdueWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start overdue task worker")
			}

			handler := httpctrl.New(uc, httpctrl.WithAuth(authUC))

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				overdueWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				overdueWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// seedMatrices creates configured approval matrices that are not present
// yet. Entity types with an active matrix in the repository are left alone
// so restarts do not duplicate configuration.
func seedMatrices(ctx context.Context, uc *usecase.UseCases, appCfg *config.AppConfig) error {
	if len(appCfg.Matrices) == 0 {
		return nil
	}

	existing, err := uc.Approval.ListMatrices(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]bool, len(existing))
	for _, m := range existing {
		byName[m.Name] = true
	}

	for _, seed := range appCfg.Matrices {
		if byName[seed.Name] {
			logging.Default().Info("Approval matrix already present, skipping seed",
				"name", seed.Name)
			continue
		}

		created, err := uc.Approval.CreateMatrix(ctx, seed.ToModel())
		if err != nil {
			return err
		}
		logging.Default().Info("Seeded approval matrix",
			"id", created.ID,
			"name", created.Name,
			"entity_type", created.EntityType,
		)
	}
	return nil
}
