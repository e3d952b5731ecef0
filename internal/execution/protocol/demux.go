package protocol

import (
	"bytes"
	"context"
	"fmt"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"go.uber.org/zap"
)

// AnswerWriter writes an encoded answer frame to the server's stdin.
type AnswerWriter func(frame []byte) error

// ResultHandler receives the result of every completed cycle.
type ResultHandler func(models.ExecutionResult)

type DemultiplexerParams struct {
	// Source is the server's stdout
	Source FrameSource

	// Encoding is the session encoding
	Encoding Encoding

	// Prompt answers line requests. If nil, every line request is
	// answered with an empty line, which selects hg's default.
	Prompt PromptBridge

	// Answer writes answers to line requests
	Answer AnswerWriter

	// OnResult is called for every result frame
	OnResult ResultHandler

	// Log is the logger to use for the demultiplexer
	Log *zap.Logger
}

// Demultiplexer splits the server's output into channels and
// assembles one ExecutionResult per command cycle.
type Demultiplexer struct {
	src      FrameSource
	enc      Encoding
	prompt   PromptBridge
	answer   AnswerWriter
	onResult ResultHandler

	stdout bytes.Buffer
	stderr bytes.Buffer

	log *zap.Logger
}

func NewDemultiplexer(params DemultiplexerParams) *Demultiplexer {
	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Demultiplexer{
		src:      params.Source,
		enc:      params.Encoding,
		prompt:   params.Prompt,
		answer:   params.Answer,
		onResult: params.OnResult,
		log:      log.Named("demux"),
	}
}

// Run consumes frames until ctx is done, the stream closes or the
// server violates the protocol. It never returns nil.
func (d *Demultiplexer) Run(ctx context.Context) error {
	for {
		frame, err := ReadFrame(ctx, d.src)
		if err != nil {
			return err
		}

		if err := d.dispatch(ctx, frame); err != nil {
			return err
		}
	}
}

func (d *Demultiplexer) dispatch(ctx context.Context, frame RawFrame) error {
	switch frame.Channel {
	case ChannelOutput:
		d.stdout.Write(frame.Payload)

	case ChannelError:
		d.stderr.Write(frame.Payload)

	case ChannelResult:
		code, err := frame.ExitCode()
		if err != nil {
			return err
		}

		d.complete(code)

	case ChannelLineRequest:
		return d.handleLineRequest(ctx, int(frame.Length))

	default:
		return fmt.Errorf("%w: unexpected channel %s", ErrProtocol, frame.Channel)
	}

	return nil
}

// complete emits the result of the current cycle and resets the
// accumulators. Text is decoded once per cycle, so multi-byte
// characters split across frames survive.
func (d *Demultiplexer) complete(code int) {
	result := models.ExecutionResult{
		ExitCode: code,
		Stdout:   d.enc.Decode(d.stdout.Bytes()),
		Stderr:   d.enc.Decode(d.stderr.Bytes()),
	}

	d.stdout.Reset()
	d.stderr.Reset()

	d.log.Debug("cycle complete", zap.Int("exit_code", code))

	if d.onResult != nil {
		d.onResult(result)
	}
}

// handleLineRequest blocks until the prompt bridge answered and the
// answer has been written. The cycle stays open.
func (d *Demultiplexer) handleLineRequest(ctx context.Context, maxLength int) error {
	body := d.enc.Decode(d.stdout.Bytes())

	log := d.log.With(zap.Int("max_length", maxLength))
	log.Debug("line requested")

	var answer string
	if d.prompt != nil {
		var err error
		answer, err = d.prompt.Prompt(ctx, body, maxLength)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			// an empty line makes hg pick the default choice
			log.Warn("prompt failed, answering with default", zap.Error(err))
			answer = ""
		}
	}

	frame, err := EncodeAnswer(answer, maxLength, d.enc)
	if err != nil {
		return fmt.Errorf("failed to encode answer: %w", err)
	}

	if d.answer == nil {
		return fmt.Errorf("no answer writer provided")
	}

	if err := d.answer(frame); err != nil {
		return fmt.Errorf("failed to write answer: %w", err)
	}

	return nil
}
