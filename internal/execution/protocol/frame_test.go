package protocol_test

import (
	"bufio"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest_Layout(t *testing.T) {
	buf, err := protocol.EncodeRequest("runcommand", []string{"log", "-l", "1"}, protocol.UTF8)
	require.NoError(t, err)

	expected := []byte("runcommand\n\x00\x00\x00\x08log\x00-l\x001")
	assert.Equal(t, expected, buf)
}

func TestEncodeRequest_NoArgs(t *testing.T) {
	buf, err := protocol.EncodeRequest("runcommand", nil, protocol.UTF8)
	require.NoError(t, err)

	assert.Equal(t, []byte("runcommand\n\x00\x00\x00\x00"), buf)
}

func TestEncodeRequest_RejectsInvalidName(t *testing.T) {
	_, err := protocol.EncodeRequest("run\ncommand", nil, protocol.UTF8)
	assert.Error(t, err)

	_, err = protocol.EncodeRequest("", nil, protocol.UTF8)
	assert.Error(t, err)
}

func TestRequest_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"runcommand", []string{"status"}},
		{"runcommand", []string{"commit", "-m", "multi\nline message"}},
		{"runcommand", []string{"log", "--template", "{node}\\n", "-r", "tip"}},
		{"runcommand", []string{"add", "ünïcödé.txt", ""}},
		{"getencoding", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := protocol.EncodeRequest(tc.name, tc.args, protocol.UTF8)
			require.NoError(t, err)

			name, args, err := protocol.ReadRequest(bufio.NewReader(bytes.NewReader(buf)), protocol.UTF8)
			require.NoError(t, err)

			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestRequest_RoundTrip_Latin1(t *testing.T) {
	enc, err := protocol.LookupEncoding("latin1")
	require.NoError(t, err)

	args := []string{"commit", "-m", "café"}

	buf, err := protocol.EncodeRequest("runcommand", args, enc)
	require.NoError(t, err)

	// é is a single byte in latin1
	assert.Contains(t, string(buf), "caf\xe9")

	_, decoded, err := protocol.ReadRequest(bufio.NewReader(bytes.NewReader(buf)), enc)
	require.NoError(t, err)
	assert.Equal(t, args, decoded)
}

func TestEncodeAnswer(t *testing.T) {
	buf, err := protocol.EncodeAnswer("y", 0, protocol.UTF8)
	require.NoError(t, err)

	assert.Equal(t, []byte("\x00\x00\x00\x02y\n"), buf)

	answer, err := protocol.ReadAnswer(bytes.NewReader(buf), protocol.UTF8)
	require.NoError(t, err)
	assert.Equal(t, "y", answer)
}

func TestEncodeAnswer_TruncatesToMaxLength(t *testing.T) {
	buf, err := protocol.EncodeAnswer("yes please", 4, protocol.UTF8)
	require.NoError(t, err)

	assert.Equal(t, []byte("\x00\x00\x00\x04yes\n"), buf)
}

func TestReadFrame_AllChannels(t *testing.T) {
	var raw []byte
	raw = append(raw, protocol.EncodeFrame(protocol.ChannelOutput, []byte("out"))...)
	raw = append(raw, protocol.EncodeFrame(protocol.ChannelError, []byte("err"))...)
	raw = append(raw, protocol.EncodeLineRequestFrame(4096)...)
	raw = append(raw, protocol.EncodeResultFrame(-1)...)

	r := stream.NewReader()
	require.NoError(t, r.Push(raw))

	ctx := context.Background()

	frame, err := protocol.ReadFrame(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, protocol.ChannelOutput, frame.Channel)
	assert.Equal(t, []byte("out"), frame.Payload)

	frame, err = protocol.ReadFrame(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, protocol.ChannelError, frame.Channel)
	assert.Equal(t, []byte("err"), frame.Payload)

	frame, err = protocol.ReadFrame(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, protocol.ChannelLineRequest, frame.Channel)
	assert.Equal(t, uint32(4096), frame.Length)
	assert.Nil(t, frame.Payload)

	frame, err = protocol.ReadFrame(ctx, r)
	require.NoError(t, err)
	code, err := frame.ExitCode()
	require.NoError(t, err)
	assert.Equal(t, -1, code)

	assert.Zero(t, r.Buffered())
}

func TestReadFrame_UnknownChannel(t *testing.T) {
	r := stream.NewReader()
	require.NoError(t, r.Push([]byte("x\x00\x00\x00\x00")))

	_, err := protocol.ReadFrame(context.Background(), r)
	assert.ErrorIs(t, err, protocol.ErrProtocol)
}

func TestReadFrame_StreamClosedMidFrame(t *testing.T) {
	r := stream.NewReader()
	require.NoError(t, r.Push([]byte("o\x00\x00\x00\x10abc")))
	require.NoError(t, r.Close())

	_, err := protocol.ReadFrame(context.Background(), r)
	assert.ErrorIs(t, err, protocol.ErrProtocol)
	assert.ErrorIs(t, err, stream.ErrClosed)
}

func TestReadFrame_LengthOutOfRange(t *testing.T) {
	for _, tag := range []string{"o", "e", "L"} {
		t.Run(tag, func(t *testing.T) {
			r := stream.NewReader()
			require.NoError(t, r.Push([]byte(tag+"\xff\xff\xff\xff")))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			_, err := protocol.ReadFrame(ctx, r)
			assert.ErrorIs(t, err, protocol.ErrProtocol)
			assert.NotErrorIs(t, err, context.DeadlineExceeded)
		})
	}
}

func TestReadFrame_ResultIgnoresLength(t *testing.T) {
	r := stream.NewReader()
	require.NoError(t, r.Push([]byte("r\xff\xff\xff\xff\x00\x00\x00\x02")))

	frame, err := protocol.ReadFrame(context.Background(), r)
	require.NoError(t, err)

	code, err := frame.ExitCode()
	require.NoError(t, err)
	assert.Equal(t, 2, code)
}

func TestReadFrame_OneByteChunks(t *testing.T) {
	raw := protocol.EncodeFrame(protocol.ChannelOutput, []byte("chunked payload"))

	r := stream.NewReader()
	for _, b := range raw {
		require.NoError(t, r.Push([]byte{b}))
	}

	frame, err := protocol.ReadFrame(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunked payload"), frame.Payload)
}

func TestChannel_String(t *testing.T) {
	assert.Equal(t, "output", protocol.ChannelOutput.String())
	assert.Equal(t, "line-request", protocol.ChannelLineRequest.String())
	assert.Contains(t, protocol.Channel('I').String(), "unknown")
}
