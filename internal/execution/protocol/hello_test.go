package protocol_test

import (
	"context"
	"testing"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHello(t *testing.T) {
	body := "capabilities: getencoding runcommand\nencoding: UTF-8\npid: 4242"

	hello, err := protocol.ParseHello([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, []string{"getencoding", "runcommand"}, hello.Capabilities)
	assert.Equal(t, "UTF-8", hello.Encoding)
	assert.Equal(t, "4242", hello.Fields["pid"])
	assert.True(t, hello.HasCapability(protocol.CommandRunCommand))
	assert.False(t, hello.HasCapability("attachio"))
}

func TestParseHello_TwoLines(t *testing.T) {
	hello, err := protocol.ParseHello([]byte("capabilities: runcommand\nencoding: ascii"))
	require.NoError(t, err)

	assert.Equal(t, "ascii", hello.Encoding)
}

func TestParseHello_Malformed(t *testing.T) {
	for _, body := range []string{
		"",
		"hello world",
		"encoding: UTF-8\ncapabilities: runcommand",
		"capabilities: runcommand",
	} {
		_, err := protocol.ParseHello([]byte(body))
		assert.ErrorIs(t, err, protocol.ErrProtocol, body)
	}
}

func TestReadHello_AnyChannel(t *testing.T) {
	r := stream.NewReader()
	require.NoError(t, r.Push(protocol.EncodeFrame(
		protocol.ChannelError,
		[]byte("capabilities: runcommand\nencoding: UTF-8\n"),
	)))

	hello, err := protocol.ReadHello(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"runcommand"}, hello.Capabilities)
}

func TestLookupEncoding(t *testing.T) {
	enc, err := protocol.LookupEncoding("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", enc.Name())

	_, err = protocol.LookupEncoding("no-such-encoding")
	assert.ErrorIs(t, err, protocol.ErrUnsupportedEncoding)
}

func TestEncoding_ZeroValueIsUTF8(t *testing.T) {
	var enc protocol.Encoding

	assert.Equal(t, "UTF-8", enc.Name())

	b, err := enc.Encode("grüße")
	require.NoError(t, err)
	assert.Equal(t, "grüße", enc.Decode(b))
}
