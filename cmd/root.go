package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/lambda-feedback/hgserve/config"
	"github.com/lambda-feedback/hgserve/internal/shell"
	"github.com/lambda-feedback/hgserve/util/conf"
	"github.com/lambda-feedback/hgserve/util/logging"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const envPrefix = "HGSERVE_"

var (
	appName  = "hgserve"
	appUsage = `Run Mercurial commands through a persistent command server,
answering interactive prompts on the way.`

	// cliMap maps flags to config keys
	cliMap = map[string]string{
		"hg":            "execution.supervisor.start.cmd",
		"cwd":           "execution.supervisor.start.cwd",
		"hg-arg":        "execution.supervisor.start.args",
		"mode":          "execution.mode",
		"max-procs":     "execution.max_procs",
		"prompt":        "execution.prompt.mode",
		"prompt-answer": "execution.prompt.answer",
		"stop-timeout":  "execution.supervisor.stop.timeout",
		"max-restarts":  "execution.supervisor.restart.max_attempts",
	}

	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config-file",
				Usage:   "load configuration from a .json, .yaml or .env file.",
				EnvVars: []string{envPrefix + "CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "the format used to print command results. Options: text, json, yaml.",
				Aliases: []string{"o"},
			},
			// hg flags
			&cli.StringFlag{
				Name:     "hg",
				Usage:    "the hg executable to run.",
				Category: "mercurial",
			},
			&cli.StringFlag{
				Name:     "cwd",
				Usage:    "the repository root. Defaults to the current directory.",
				Aliases:  []string{"R"},
				Category: "mercurial",
			},
			&cli.StringSliceFlag{
				Name:     "hg-arg",
				Usage:    "additional global options passed to hg, e.g. --config=ui.username=bot.",
				Category: "mercurial",
			},
			// execution flags
			&cli.StringFlag{
				Name:     "mode",
				Usage:    "how commands are executed. Options: server, oneshot.",
				Aliases:  []string{"m"},
				Category: "execution",
			},
			&cli.IntFlag{
				Name:     "max-procs",
				Usage:    "the maximum number of concurrent hg processes in oneshot mode.",
				Aliases:  []string{"n"},
				Category: "execution",
			},
			&cli.DurationFlag{
				Name:     "stop-timeout",
				Usage:    "how long to wait for the command server to exit before it is killed.",
				Category: "execution",
			},
			&cli.IntFlag{
				Name:     "max-restarts",
				Usage:    "the number of consecutive restart attempts after a crash. 0 means no limit.",
				Category: "execution",
			},
			&cli.StringFlag{
				Name:     "prompt",
				Usage:    "how interactive prompts are answered. Options: default, terminal, none.",
				Category: "prompt",
			},
			&cli.StringFlag{
				Name:     "prompt-answer",
				Usage:    "the preferred answer to interactive prompts in default mode.",
				Category: "prompt",
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, config file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:       ctx,
				CliMap:    cliMap,
				Defaults:  config.DefaultConfig,
				EnvPrefix: envPrefix,
				FileName:  ctx.Path("config-file"),
				Log:       log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			_ = logging.LoggerOrNop(ctx.Context).Sync()
			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli and returns the process exit code.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) int {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return 0
	}

	// the shell reports the exit code of the hg command
	var exitErr *shell.ExitError
	if !errors.As(err, &exitErr) {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
	}

	return shell.ExitCode(err)
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")
	if lvl == "" {
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.WarnLevel)
}
