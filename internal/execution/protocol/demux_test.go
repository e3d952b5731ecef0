package protocol_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type demuxHarness struct {
	reader  *stream.Reader
	results chan models.ExecutionResult
	errs    chan error

	answersLock sync.Mutex
	answers     bytes.Buffer
}

func runDemux(t *testing.T, prompt protocol.PromptBridge) *demuxHarness {
	h := &demuxHarness{
		reader:  stream.NewReader(),
		results: make(chan models.ExecutionResult, 16),
		errs:    make(chan error, 1),
	}

	demux := protocol.NewDemultiplexer(protocol.DemultiplexerParams{
		Source:   h.reader,
		Encoding: protocol.UTF8,
		Prompt:   prompt,
		Answer: func(frame []byte) error {
			h.answersLock.Lock()
			defer h.answersLock.Unlock()
			h.answers.Write(frame)
			return nil
		},
		OnResult: func(res models.ExecutionResult) {
			h.results <- res
		},
		Log: zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		h.errs <- demux.Run(ctx)
	}()

	return h
}

func (h *demuxHarness) feed(t *testing.T, raw []byte, chunkSize int) {
	for len(raw) > 0 {
		n := min(chunkSize, len(raw))
		chunk := make([]byte, n)
		copy(chunk, raw[:n])
		require.NoError(t, h.reader.Push(chunk))
		raw = raw[n:]
	}
}

func (h *demuxHarness) next(t *testing.T) models.ExecutionResult {
	select {
	case res := <-h.results:
		return res
	case err := <-h.errs:
		t.Fatalf("demultiplexer stopped: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	return models.ExecutionResult{}
}

func concat(frames ...[]byte) []byte {
	var buf []byte
	for _, f := range frames {
		buf = append(buf, f...)
	}
	return buf
}

func TestDemultiplexer_AccumulatesOutputFrames(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, concat(
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("hello ")),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("world\n")),
		protocol.EncodeFrame(protocol.ChannelError, []byte("warning: x\n")),
		protocol.EncodeResultFrame(0),
	), 1<<20)

	res := h.next(t)
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, "warning: x\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestDemultiplexer_ResetsAccumulatorsPerCycle(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, concat(
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("first")),
		protocol.EncodeResultFrame(1),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("second")),
		protocol.EncodeResultFrame(255),
	), 1<<20)

	first := h.next(t)
	second := h.next(t)

	assert.Equal(t, models.ExecutionResult{ExitCode: 1, Stdout: "first"}, first)
	assert.Equal(t, models.ExecutionResult{ExitCode: 255, Stdout: "second"}, second)
}

func TestDemultiplexer_PartialReads(t *testing.T) {
	raw := concat(
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("ünï")),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("cödé")),
		protocol.EncodeFrame(protocol.ChannelError, []byte("abort: oops\n")),
		protocol.EncodeResultFrame(-1),
	)

	whole := runDemux(t, nil)
	whole.feed(t, raw, len(raw))
	expected := whole.next(t)

	for _, size := range []int{1, 2, 3, 7} {
		h := runDemux(t, nil)
		h.feed(t, raw, size)
		assert.Equal(t, expected, h.next(t), "chunk size %d", size)
	}

	assert.Equal(t, "ünïcödé", expected.Stdout)
	assert.Equal(t, -1, expected.ExitCode)
}

func TestDemultiplexer_MultiByteCharacterSplitAcrossFrames(t *testing.T) {
	h := runDemux(t, nil)

	ue := []byte("ü")
	h.feed(t, concat(
		protocol.EncodeFrame(protocol.ChannelOutput, ue[:1]),
		protocol.EncodeFrame(protocol.ChannelOutput, ue[1:]),
		protocol.EncodeResultFrame(0),
	), 1)

	assert.Equal(t, "ü", h.next(t).Stdout)
}

func TestDemultiplexer_LineRequestMidCycle(t *testing.T) {
	var calls []string

	prompt := protocol.PromptFunc(func(ctx context.Context, body string, maxLength int) (string, error) {
		calls = append(calls, body)
		assert.Equal(t, 4096, maxLength)
		return "d", nil
	})

	h := runDemux(t, prompt)

	h.feed(t, concat(
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("file was modified\n")),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("keep (m)odified or (d)elete? ")),
		protocol.EncodeLineRequestFrame(4096),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("d\n")),
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("removing file\n")),
		protocol.EncodeResultFrame(0),
	), 1)

	res := h.next(t)

	require.Len(t, calls, 1)
	assert.Equal(t, "file was modified\nkeep (m)odified or (d)elete? ", calls[0])

	assert.Equal(t,
		"file was modified\nkeep (m)odified or (d)elete? d\nremoving file\n",
		res.Stdout,
	)

	h.answersLock.Lock()
	defer h.answersLock.Unlock()

	assert.Equal(t, []byte("\x00\x00\x00\x02d\n"), h.answers.Bytes())
}

func TestDemultiplexer_LineRequestWithoutBridge(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, concat(
		protocol.EncodeFrame(protocol.ChannelOutput, []byte("continue? ")),
		protocol.EncodeLineRequestFrame(10),
		protocol.EncodeResultFrame(0),
	), 1<<20)

	h.next(t)

	h.answersLock.Lock()
	defer h.answersLock.Unlock()

	assert.Equal(t, []byte("\x00\x00\x00\x01\n"), h.answers.Bytes())
}

func TestDemultiplexer_LineRequestBridgeFailure(t *testing.T) {
	prompt := protocol.PromptFunc(func(context.Context, string, int) (string, error) {
		return "", assert.AnError
	})

	h := runDemux(t, prompt)

	h.feed(t, concat(
		protocol.EncodeLineRequestFrame(10),
		protocol.EncodeResultFrame(3),
	), 1<<20)

	assert.Equal(t, 3, h.next(t).ExitCode)

	h.answersLock.Lock()
	defer h.answersLock.Unlock()

	assert.Equal(t, []byte("\x00\x00\x00\x01\n"), h.answers.Bytes())
}

func TestDemultiplexer_UnknownChannelStopsLoop(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, []byte("I\x00\x00\x00\x10"), 1<<20)

	select {
	case err := <-h.errs:
		assert.ErrorIs(t, err, protocol.ErrProtocol)
	case <-time.After(2 * time.Second):
		t.Fatal("demultiplexer did not stop")
	}
}

func TestDemultiplexer_LineRequestLengthOutOfRangeStopsLoop(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, []byte("L\x80\x00\x00\x00"), 1<<20)

	select {
	case err := <-h.errs:
		assert.ErrorIs(t, err, protocol.ErrProtocol)
	case <-time.After(2 * time.Second):
		t.Fatal("demultiplexer did not stop")
	}
}

func TestDemultiplexer_StreamClosedStopsLoop(t *testing.T) {
	h := runDemux(t, nil)

	h.feed(t, []byte("o\x00\x00"), 1<<20)
	h.reader.CloseWithError(nil)

	select {
	case err := <-h.errs:
		assert.ErrorIs(t, err, protocol.ErrProtocol)
		assert.ErrorIs(t, err, stream.ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("demultiplexer did not stop")
	}
}
