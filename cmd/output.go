package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(s)); format {
	case outputText, outputJSON, outputYAML:
		return format, nil
	case "":
		return outputText, nil
	default:
		return "", fmt.Errorf("invalid output format: %q", s)
	}
}

// commandRecord is the structured form of a command result.
type commandRecord struct {
	Args     []string `json:"args" yaml:"args"`
	ExitCode int      `json:"exit_code" yaml:"exit_code"`
	Stdout   string   `json:"stdout" yaml:"stdout"`
	Stderr   string   `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type sessionRecord struct {
	ID           string   `json:"id" yaml:"id"`
	Pid          int      `json:"pid" yaml:"pid"`
	Encoding     string   `json:"encoding" yaml:"encoding"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
}

// printer writes command results in the configured format. Text output
// passes hg's output through unchanged.
type printer struct {
	format outputFormat
	stdout io.Writer
	stderr io.Writer

	documents int
}

func newPrinter(format outputFormat, stdout, stderr io.Writer) *printer {
	return &printer{
		format: format,
		stdout: stdout,
		stderr: stderr,
	}
}

func (p *printer) Result(args []string, res *models.ExecutionResult) error {
	if p.format == outputText {
		if _, err := io.WriteString(p.stdout, res.Stdout); err != nil {
			return err
		}
		_, err := io.WriteString(p.stderr, res.Stderr)
		return err
	}

	return p.encode(commandRecord{
		Args:     args,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	})
}

// Failure reports a command that did not produce a result.
func (p *printer) Failure(args []string, cause error) error {
	if p.format == outputText {
		pterm.Error.WithWriter(p.stderr).Println(fmt.Sprintf("hg %s: %s", strings.Join(args, " "), cause))
		return nil
	}

	return p.encode(commandRecord{
		Args:     args,
		ExitCode: -1,
		Error:    cause.Error(),
	})
}

func (p *printer) Session(session supervisor.Session) error {
	if p.format == outputText {
		_, err := fmt.Fprintf(p.stdout,
			"%s %s\n%s %d\n%s %s\n%s %s\n",
			pterm.Bold.Sprint("session:"), session.ID,
			pterm.Bold.Sprint("pid:"), session.Pid,
			pterm.Bold.Sprint("encoding:"), session.Encoding,
			pterm.Bold.Sprint("capabilities:"), strings.Join(session.Capabilities, " "),
		)
		return err
	}

	return p.encode(sessionRecord{
		ID:           session.ID,
		Pid:          session.Pid,
		Encoding:     session.Encoding,
		Capabilities: session.Capabilities,
	})
}

func (p *printer) encode(v any) error {
	defer func() { p.documents++ }()

	switch p.format {
	case outputJSON:
		return json.NewEncoder(p.stdout).Encode(v)
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		if p.documents > 0 {
			if _, err := io.WriteString(p.stdout, "---\n"); err != nil {
				return err
			}
		}
		_, err = p.stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %q", p.format)
	}
}
