package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mapcrew-lab/taskcoord/pkg/cli/config"
	httpctrl "github.com/mapcrew-lab/taskcoord/pkg/controller/http"
	"github.com/mapcrew-lab/taskcoord/pkg/service/worker"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var lockDuration time.Duration
	var sweepInterval time.Duration
	var disableSweeper bool
	var repoCfg config.Repository
	var slackCfg config.Slack
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKCOORD_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "lock-duration",
			Usage:       "How long a claimed task stays locked without a refresh",
			Value:       usecase.DefaultLockDuration,
			Sources:     cli.EnvVars("TASKCOORD_LOCK_DURATION"),
			Destination: &lockDuration,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "How often the background sweeper clears expired locks",
			Value:       worker.DefaultSweepInterval,
			Sources:     cli.EnvVars("TASKCOORD_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.BoolFlag{
			Name:        "no-sweeper",
			Usage:       "Disable the background expired-lock sweeper",
			Sources:     cli.EnvVars("TASKCOORD_NO_SWEEPER"),
			Destination: &disableSweeper,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithLockDuration(lockDuration),
			}

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}
			if policy != nil {
				ucOpts = append(ucOpts,
					usecase.WithAuthorizer(policy),
					usecase.WithPreferences(policy),
				)
			}

			sink, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifications")
			}
			if sink != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(sink))
			}

			uc := usecase.New(repo, ucOpts...)

			var sweeper *worker.LockSweeper
			if !disableSweeper {
				sweeper = worker.NewLockSweeper(repo, worker.WithSweepInterval(sweepInterval))
				if err := sweeper.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start lock sweeper")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, repo),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"lock_duration", lockDuration.String())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				<-egCtx.Done()
				logging.Default().Info("Shutting down")

				if sweeper != nil {
					sweeper.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
