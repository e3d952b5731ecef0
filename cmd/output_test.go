package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOutputFormat(t *testing.T) {
	format, err := parseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, outputText, format)

	format, err = parseOutputFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, outputJSON, format)

	_, err = parseOutputFormat("xml")
	assert.Error(t, err)
}

func TestPrinter_Text(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(outputText, &stdout, &stderr)

	err := p.Result([]string{"status"}, &models.ExecutionResult{
		ExitCode: 1,
		Stdout:   "M a.txt\n",
		Stderr:   "warning: x\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "M a.txt\n", stdout.String())
	assert.Equal(t, "warning: x\n", stderr.String())
}

func TestPrinter_TextFailure(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var stdout, stderr bytes.Buffer
	p := newPrinter(outputText, &stdout, &stderr)

	require.NoError(t, p.Failure([]string{"log"}, errors.New("boom")))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "hg log: boom")
}

func TestPrinter_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(outputJSON, &stdout, &stderr)

	require.NoError(t, p.Result([]string{"branch"}, &models.ExecutionResult{Stdout: "default\n"}))
	require.NoError(t, p.Failure([]string{"log"}, errors.New("boom")))

	dec := json.NewDecoder(&stdout)

	var first, second commandRecord
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, commandRecord{Args: []string{"branch"}, Stdout: "default\n"}, first)
	assert.Equal(t, commandRecord{Args: []string{"log"}, ExitCode: -1, Error: "boom"}, second)
	assert.Empty(t, stderr.String())
}

func TestPrinter_YAML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(outputYAML, &stdout, &stderr)

	require.NoError(t, p.Result([]string{"branch"}, &models.ExecutionResult{Stdout: "default\n"}))
	require.NoError(t, p.Session(supervisor.Session{
		ID:           "abc",
		Pid:          42,
		Encoding:     "UTF-8",
		Capabilities: []string{"getencoding", "runcommand"},
	}))

	dec := yaml.NewDecoder(&stdout)

	var record commandRecord
	require.NoError(t, dec.Decode(&record))
	assert.Equal(t, []string{"branch"}, record.Args)
	assert.Equal(t, "default\n", record.Stdout)

	var session sessionRecord
	require.NoError(t, dec.Decode(&session))
	assert.Equal(t, sessionRecord{
		ID:           "abc",
		Pid:          42,
		Encoding:     "UTF-8",
		Capabilities: []string{"getencoding", "runcommand"},
	}, session)
}

func TestPrinter_TextSession(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var stdout, stderr bytes.Buffer
	p := newPrinter(outputText, &stdout, &stderr)

	require.NoError(t, p.Session(supervisor.Session{
		ID:           "abc",
		Pid:          42,
		Encoding:     "UTF-8",
		Capabilities: []string{"getencoding", "runcommand"},
	}))

	assert.Equal(t, "session: abc\npid: 42\nencoding: UTF-8\ncapabilities: getencoding runcommand\n", stdout.String())
}
