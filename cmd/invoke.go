package cmd

import (
	"context"
	"os"

	"github.com/lambda-feedback/hgserve/app"
	"github.com/lambda-feedback/hgserve/config"
	"github.com/lambda-feedback/hgserve/repository"
	"github.com/lambda-feedback/hgserve/util/conf"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// commandFunc does the work of a command against the opened repository
// and returns the process exit code.
type commandFunc func(ctx context.Context, repo repository.Repository, out *printer, log *zap.Logger) int

// runCommand starts the application, runs fn once the repository is
// open and shuts down with the exit code fn returned.
func runCommand(ctx *cli.Context, fn commandFunc) error {
	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	format, err := parseOutputFormat(cfg.Output)
	if err != nil {
		return err
	}

	shell, err := app.New(ctx)
	if err != nil {
		return err
	}

	out := newPrinter(format, os.Stdout, os.Stderr)

	return shell.Run(ctx.Context, fx.Invoke(invokeCommand(fn, out)))
}

func invokeCommand(fn commandFunc, out *printer) any {
	return func(
		appCtx context.Context,
		lc fx.Lifecycle,
		shutdowner fx.Shutdowner,
		repo repository.Repository,
		log *zap.Logger,
	) {
		ctx, cancel := context.WithCancel(appCtx)
		done := make(chan struct{})

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					defer close(done)

					code := fn(ctx, repo, out, log)

					if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
						log.Error("error shutting down", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(stopCtx context.Context) error {
				cancel()

				select {
				case <-done:
					return nil
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			},
		})
	}
}
