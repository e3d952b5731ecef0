package config

import (
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution"
	"github.com/lambda-feedback/hgserve/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Output is the format used to print command results
	Output string `conf:"output"`

	// Execution is the configuration of the hg command execution
	Execution execution.Config `conf:"execution"`
}

var executionDefaults = conf.DefaultConfig{
	"mode":        string(execution.ModeServer),
	"prompt.mode": "default",
}

var supervisorDefaults = conf.DefaultConfig{
	"start.cmd":            "hg",
	"stop.timeout":         5 * time.Second,
	"handshake_timeout":    10 * time.Second,
	"restart.max_attempts": 5,
	"restart.base_delay":   100 * time.Millisecond,
	"restart.max_delay":    5 * time.Second,
}

var DefaultConfig = conf.MergeDefaults("",
	conf.DefaultConfig{
		"output": "text",
	},
	conf.MergeDefaults("execution",
		executionDefaults,
		conf.MergeDefaults("supervisor", supervisorDefaults),
	),
)
