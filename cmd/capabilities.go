package cmd

import (
	"context"

	"github.com/lambda-feedback/hgserve/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var capabilitiesCmd = &cli.Command{
	Name:   "capabilities",
	Usage:  "Start the command server and print the negotiated session.",
	Action: capabilitiesAction,
}

func capabilitiesAction(ctx *cli.Context) error {
	return runCommand(ctx, func(ctx context.Context, repo repository.Repository, out *printer, log *zap.Logger) int {
		session, err := repo.Session()
		if err != nil {
			_ = out.Failure([]string{"serve", "--cmdserver", "pipe"}, err)
			return 1
		}

		if err := out.Session(session); err != nil {
			log.Error("error printing session", zap.Error(err))
			return 1
		}

		return 0
	})
}

func init() {
	rootApp.Commands = append(rootApp.Commands, capabilitiesCmd)
}
