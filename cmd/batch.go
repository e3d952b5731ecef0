package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/lambda-feedback/hgserve/internal/execution"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	batchCmdDescription = `The batch command reads hg commands, one per line, from the
given file or from stdin and runs them in order against a
single command server. Results are printed in input order.

Empty lines and lines starting with # are skipped. A line of
the form ":mode <server|oneshot>" switches the execution mode
for the following commands.

With --parallel, all commands are submitted at once and are
pipelined through the command server. Only use it for commands
that do not depend on each other.`
	batchCmd = &cli.Command{
		Name:        "batch",
		Usage:       "Run hg commands read from a file or stdin.",
		ArgsUsage:   "[file]",
		Description: batchCmdDescription,
		Action:      batchAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "submit all commands at once.",
			},
			&cli.BoolFlag{
				Name:    "keep-going",
				Aliases: []string{"k"},
				Usage:   "continue after a command failed.",
			},
		},
	}
)

// batchLine is a parsed input line.
type batchLine struct {
	// Args are the hg arguments of a command line
	Args []string

	// Mode is set for mode directives
	Mode execution.Mode
}

func parseBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)

		if fields[0] == ":mode" {
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: expected :mode <server|oneshot>", n)
			}

			mode, err := execution.ParseMode(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}

			lines = append(lines, batchLine{Mode: mode})
			continue
		}

		lines = append(lines, batchLine{Args: fields})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func batchAction(ctx *cli.Context) error {
	in := io.Reader(os.Stdin)
	if name := ctx.Args().First(); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	lines, err := parseBatch(in)
	if err != nil {
		return err
	}

	parallel := ctx.Bool("parallel")
	keepGoing := ctx.Bool("keep-going")

	return runCommand(ctx, func(ctx context.Context, repo repository.Repository, out *printer, log *zap.Logger) int {
		if parallel {
			return runParallel(ctx, repo, out, log, lines)
		}
		return runSequential(ctx, repo, out, log, lines, keepGoing)
	})
}

// runSequential runs one command after the other and returns the exit
// code of the last failed command.
func runSequential(
	ctx context.Context,
	repo repository.Repository,
	out *printer,
	log *zap.Logger,
	lines []batchLine,
	keepGoing bool,
) int {
	code := 0

	for _, line := range lines {
		if line.Mode != "" {
			if err := repo.SetMode(ctx, line.Mode); err != nil {
				_ = out.Failure([]string{":mode", string(line.Mode)}, err)
				return 255
			}
			continue
		}

		res, err := repo.Run(ctx, line.Args...)
		if err != nil {
			_ = out.Failure(line.Args, err)
			code = 255
		} else {
			if err := out.Result(line.Args, res); err != nil {
				log.Error("error printing result", zap.Error(err))
			}
			if !res.Success() {
				code = res.ExitCode
			}
		}

		if code != 0 && !keepGoing {
			return code
		}
	}

	return code
}

type batchResult struct {
	res *models.ExecutionResult
	err error
}

// runParallel submits every command concurrently and prints the
// results in input order. Mode directives apply before any command is
// submitted.
func runParallel(
	ctx context.Context,
	repo repository.Repository,
	out *printer,
	log *zap.Logger,
	lines []batchLine,
) int {
	var commands [][]string
	for _, line := range lines {
		if line.Mode != "" {
			if err := repo.SetMode(ctx, line.Mode); err != nil {
				_ = out.Failure([]string{":mode", string(line.Mode)}, err)
				return 255
			}
			continue
		}
		commands = append(commands, line.Args)
	}

	results := make([]batchResult, len(commands))

	var wg sync.WaitGroup
	for i, args := range commands {
		wg.Add(1)
		go func(i int, args []string) {
			defer wg.Done()
			res, err := repo.Run(ctx, args...)
			results[i] = batchResult{res: res, err: err}
		}(i, args)
	}
	wg.Wait()

	code := 0
	for i, args := range commands {
		r := results[i]
		if r.err != nil {
			_ = out.Failure(args, r.err)
			code = 255
			continue
		}

		if err := out.Result(args, r.res); err != nil {
			log.Error("error printing result", zap.Error(err))
		}
		if !r.res.Success() {
			code = r.res.ExitCode
		}
	}

	return code
}

func init() {
	rootApp.Commands = append(rootApp.Commands, batchCmd)
}
