package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// TerminalBridge forwards prompts to the user. It asks again until the
// answer is one of the offered choices or empty.
type TerminalBridge struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
	log *zap.Logger
}

var _ protocol.PromptBridge = (*TerminalBridge)(nil)

func NewTerminalBridge(in io.Reader, out io.Writer, log *zap.Logger) *TerminalBridge {
	return &TerminalBridge{
		in:  bufio.NewReader(in),
		out: out,
		log: log.Named("prompt_terminal"),
	}
}

// Prompt blocks until a line was read. Cancelling ctx does not
// interrupt a pending read, the answer is discarded instead.
func (b *TerminalBridge) Prompt(ctx context.Context, body string, maxLength int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	choices := ParseChoices(body)

	pterm.Fprint(b.out, pterm.FgLightCyan.Sprint(body))

	for {
		line, err := b.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		answer := strings.TrimRight(line, "\r\n")

		if len(choices) == 0 || answer == "" || Offers(choices, answer) {
			if maxLength > 0 && len(answer) > maxLength {
				b.log.Warn("answer exceeds maximum length",
					zap.Int("length", len(answer)),
					zap.Int("max_length", maxLength),
				)
			}

			return answer, nil
		}

		pterm.Fprintln(b.out, pterm.FgYellow.Sprintf("unrecognized response %q", answer))
		pterm.Fprint(b.out, pterm.FgLightCyan.Sprint(lastLine(body)))
	}
}

func lastLine(body string) string {
	trimmed := strings.TrimRight(body, "\n")
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		return body[i+1:]
	}

	return body
}
