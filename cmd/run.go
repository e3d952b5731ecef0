package cmd

import (
	"context"

	"github.com/lambda-feedback/hgserve/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	runCmdDescription = `The run command opens the repository, runs a single hg command
through the command server and prints its output. The process
exits with the exit code of the hg command.

Everything after the command name is passed to hg unchanged,
e.g. hgserve run log -l 3 --template '{node}\n'.`
	runCmd = &cli.Command{
		Name:            "run",
		Usage:           "Run a single hg command.",
		ArgsUsage:       "<hg command> [args...]",
		Description:     runCmdDescription,
		SkipFlagParsing: true,
		Action:          runAction,
	}
)

func runAction(ctx *cli.Context) error {
	args := ctx.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("no hg command given", 2)
	}

	return runCommand(ctx, func(ctx context.Context, repo repository.Repository, out *printer, log *zap.Logger) int {
		res, err := repo.Run(ctx, args...)
		if err != nil {
			log.Debug("command failed", zap.Strings("args", args), zap.Error(err))
			_ = out.Failure(args, err)
			return 255
		}

		if err := out.Result(args, res); err != nil {
			log.Error("error printing result", zap.Error(err))
		}

		return res.ExitCode
	})
}

func init() {
	rootApp.Commands = append(rootApp.Commands, runCmd)
}
