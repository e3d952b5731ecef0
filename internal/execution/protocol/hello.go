package protocol

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var helloPattern = regexp.MustCompile(`^capabilities: (.*)\nencoding: (.*)`)

// Hello is the server's greeting, sent once after startup.
type Hello struct {
	// Capabilities are the commands supported by the server
	Capabilities []string

	// Encoding is the name of the encoding the server uses for text
	Encoding string

	// Fields holds every "key: value" line of the greeting, including
	// optional ones such as pid
	Fields map[string]string
}

// ParseHello parses the body of the greeting frame.
func ParseHello(body []byte) (Hello, error) {
	text := string(body)

	match := helloPattern.FindStringSubmatch(text)
	if match == nil {
		return Hello{}, fmt.Errorf("%w: malformed hello message %q", ErrProtocol, text)
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		fields[key] = value
	}

	return Hello{
		Capabilities: strings.Fields(match[1]),
		Encoding:     strings.TrimSpace(match[2]),
		Fields:       fields,
	}, nil
}

// HasCapability reports whether the server advertised name.
func (h Hello) HasCapability(name string) bool {
	return slices.Contains(h.Capabilities, name)
}

// ReadHello reads the greeting frame, regardless of its channel, and
// parses it.
func ReadHello(ctx context.Context, src FrameSource) (Hello, error) {
	frame, err := ReadFrame(ctx, src)
	if err != nil {
		return Hello{}, fmt.Errorf("failed to read hello: %w", err)
	}

	return ParseHello(frame.Payload)
}
