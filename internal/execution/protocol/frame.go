package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lambda-feedback/hgserve/internal/execution/stream"
)

var ErrProtocol = errors.New("protocol error")

// CommandRunCommand is the command used to execute hg commands, and
// the capability the server has to advertise for it.
const CommandRunCommand = "runcommand"

// Channel identifies one of the logical streams multiplexed over the
// server's stdout.
type Channel byte

const (
	// ChannelOutput carries the command's standard output
	ChannelOutput Channel = 'o'

	// ChannelError carries the command's error output
	ChannelError Channel = 'e'

	// ChannelResult terminates a command cycle with the exit code
	ChannelResult Channel = 'r'

	// ChannelLineRequest asks the client for a line of input. The
	// length field holds the maximum answer length.
	ChannelLineRequest Channel = 'L'
)

func (c Channel) String() string {
	switch c {
	case ChannelOutput:
		return "output"
	case ChannelError:
		return "error"
	case ChannelResult:
		return "result"
	case ChannelLineRequest:
		return "line-request"
	default:
		return fmt.Sprintf("unknown(%q)", byte(c))
	}
}

// Valid reports whether c is a channel known to the client.
func (c Channel) Valid() bool {
	switch c {
	case ChannelOutput, ChannelError, ChannelResult, ChannelLineRequest:
		return true
	}

	return false
}

// resultLength is the size of the exit code carried by a result frame
const resultLength = 4

// MaxFrameLength bounds the length field of output, error and line
// request frames. It fits an int on every platform.
const MaxFrameLength = 1 << 30

// RawFrame is a single frame read from the server.
type RawFrame struct {
	Channel Channel
	Length  uint32
	Payload []byte
}

// FrameSource is the byte source frames are read from.
type FrameSource interface {
	ReadChar(ctx context.Context) (byte, error)
	ReadUint32BE(ctx context.Context) (uint32, error)
	ReadExact(ctx context.Context, n int) ([]byte, error)
}

var _ FrameSource = (*stream.Reader)(nil)

// ReadFrame reads a single frame. Output and error frames carry
// Length payload bytes, result frames carry exactly four bytes and
// line requests carry none.
func ReadFrame(ctx context.Context, src FrameSource) (RawFrame, error) {
	tag, err := src.ReadChar(ctx)
	if err != nil {
		return RawFrame{}, wrapReadError(err)
	}

	channel := Channel(tag)
	if !channel.Valid() {
		return RawFrame{}, fmt.Errorf("%w: unexpected channel %s", ErrProtocol, channel)
	}

	length, err := src.ReadUint32BE(ctx)
	if err != nil {
		return RawFrame{}, wrapReadError(err)
	}

	if channel != ChannelResult && length > MaxFrameLength {
		return RawFrame{}, fmt.Errorf("%w: %s frame length %d out of range", ErrProtocol, channel, length)
	}

	frame := RawFrame{Channel: channel, Length: length}

	var size int
	switch channel {
	case ChannelResult:
		size = resultLength
	case ChannelLineRequest:
		return frame, nil
	default:
		size = int(length)
	}

	frame.Payload, err = src.ReadExact(ctx, size)
	if err != nil {
		return RawFrame{}, wrapReadError(err)
	}

	return frame, nil
}

// ExitCode interprets the payload of a result frame.
func (f RawFrame) ExitCode() (int, error) {
	if f.Channel != ChannelResult || len(f.Payload) != resultLength {
		return 0, fmt.Errorf("%w: %s frame does not carry an exit code", ErrProtocol, f.Channel)
	}

	return int(int32(binary.BigEndian.Uint32(f.Payload))), nil
}

func wrapReadError(err error) error {
	if errors.Is(err, stream.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}

	return err
}

// MARK: - server frames

// EncodeFrame encodes a frame as sent by the server.
func EncodeFrame(channel Channel, payload []byte) []byte {
	buf := make([]byte, 5+len(payload))
	buf[0] = byte(channel)
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(payload)))
	copy(buf[5:], payload)

	return buf
}

// EncodeResultFrame encodes a result frame carrying code.
func EncodeResultFrame(code int) []byte {
	var payload [resultLength]byte
	binary.BigEndian.PutUint32(payload[:], uint32(int32(code)))

	return EncodeFrame(ChannelResult, payload[:])
}

// EncodeLineRequestFrame encodes a line request accepting at most
// maxLength bytes.
func EncodeLineRequestFrame(maxLength uint32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(ChannelLineRequest)
	binary.BigEndian.PutUint32(buf[1:], maxLength)

	return buf
}

// MARK: - client frames

// EncodeRequest encodes a command request: the command name and a
// newline, followed by the NUL-joined arguments prefixed with their
// big-endian length.
func EncodeRequest(name string, args []string, enc Encoding) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, "\n\x00") {
		return nil, fmt.Errorf("invalid command name %q", name)
	}

	blob, err := enc.Encode(strings.Join(args, "\x00"))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(name) + 1 + 4 + len(blob))
	buf.WriteString(name)
	buf.WriteByte('\n')
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(blob)))
	buf.Write(blob)

	return buf.Bytes(), nil
}

// ReadRequest reads a request as encoded by EncodeRequest. A request
// with an empty argument blob yields no arguments.
func ReadRequest(r *bufio.Reader, enc Encoding) (string, []string, error) {
	name, err := r.ReadString('\n')
	if err != nil {
		return "", nil, err
	}

	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", nil, err
	}

	blob := make([]byte, length)
	if _, err := io.ReadFull(r, blob); err != nil {
		return "", nil, err
	}

	name = strings.TrimSuffix(name, "\n")

	if len(blob) == 0 {
		return name, nil, nil
	}

	return name, strings.Split(enc.Decode(blob), "\x00"), nil
}

// EncodeAnswer encodes the answer to a line request: the answer and a
// trailing newline, prefixed with their big-endian length. If
// maxLength is positive, the answer is shortened to fit.
func EncodeAnswer(answer string, maxLength int, enc Encoding) ([]byte, error) {
	line, err := enc.Encode(answer + "\n")
	if err != nil {
		return nil, err
	}

	for maxLength > 0 && len(line) > maxLength && answer != "" {
		runes := []rune(answer)
		answer = string(runes[:len(runes)-1])

		if line, err = enc.Encode(answer + "\n"); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, 4+len(line))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(line)))
	copy(buf[4:], line)

	return buf, nil
}

// ReadAnswer reads an answer as encoded by EncodeAnswer and returns it
// without the trailing newline.
func ReadAnswer(r io.Reader, enc Encoding) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}

	line := make([]byte, length)
	if _, err := io.ReadFull(r, line); err != nil {
		return "", err
	}

	return strings.TrimSuffix(enc.Decode(line), "\n"), nil
}
