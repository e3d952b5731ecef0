package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

var (
	ErrClosed         = errors.New("stream closed")
	ErrConcurrentRead = errors.New("concurrent read on single-consumer stream")
)

// DefaultChunkSize is the buffer size used by ReadFrom for each read.
const DefaultChunkSize = 32 * 1024

// Reader buffers incoming byte chunks and serves exact-size reads
// against them. Chunks are kept as delivered; bytes are only
// materialized when a read completes.
//
// Reader is single-consumer: at most one ReadExact may be in flight.
// Push and CloseWithError may be called from any goroutine.
type Reader struct {
	mu       sync.Mutex
	chunks   [][]byte
	offset   int
	buffered int
	err      error

	notify  chan struct{}
	reading atomic.Bool
}

func NewReader() *Reader {
	return &Reader{
		notify: make(chan struct{}, 1),
	}
}

// Push appends a chunk to the buffer and wakes a pending read. The
// reader takes ownership of chunk; the caller must not modify it
// afterwards.
func (r *Reader) Push(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return r.err
	}

	r.chunks = append(r.chunks, chunk)
	r.buffered += len(chunk)
	r.mu.Unlock()

	r.signal()

	return nil
}

// CloseWithError closes the reader. Reads which cannot be satisfied
// from already buffered bytes fail with an error wrapping ErrClosed
// and cause. Closing an already closed reader is a no-op.
func (r *Reader) CloseWithError(cause error) {
	r.mu.Lock()
	if r.err == nil {
		if cause == nil || errors.Is(cause, io.EOF) {
			r.err = ErrClosed
		} else {
			r.err = fmt.Errorf("%w: %w", ErrClosed, cause)
		}
	}
	r.mu.Unlock()

	r.signal()
}

// Close closes the reader without a cause.
func (r *Reader) Close() error {
	r.CloseWithError(nil)
	return nil
}

// Buffered returns the number of unconsumed bytes.
func (r *Reader) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.buffered
}

// ReadExact blocks until n bytes are available and consumes exactly
// n bytes in delivery order. It returns early if ctx is done or the
// reader is closed before enough bytes arrived.
func (r *Reader) ReadExact(ctx context.Context, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read size %d", n)
	}

	if !r.reading.CompareAndSwap(false, true) {
		return nil, ErrConcurrentRead
	}
	defer r.reading.Store(false)

	for {
		r.mu.Lock()
		if r.buffered >= n {
			buf := r.consume(n)
			r.mu.Unlock()
			return buf, nil
		}
		err := r.err
		r.mu.Unlock()

		if err != nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-r.notify:
		}
	}
}

// ReadChar reads a single byte.
func (r *Reader) ReadChar(ctx context.Context) (byte, error) {
	buf, err := r.ReadExact(ctx, 1)
	if err != nil {
		return 0, err
	}

	return buf[0], nil
}

// ReadUint32BE reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32BE(ctx context.Context) (uint32, error) {
	buf, err := r.ReadExact(ctx, 4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf), nil
}

// ReadInt32BE reads a big-endian signed 32-bit integer.
func (r *Reader) ReadInt32BE(ctx context.Context) (int32, error) {
	v, err := r.ReadUint32BE(ctx)
	if err != nil {
		return 0, err
	}

	return int32(v), nil
}

// ReadFrom pushes everything read from src into the reader, using a
// fresh buffer for every read. When src is exhausted or fails, the
// reader is closed with the error. ReadFrom returns the number of
// bytes pushed and the error that ended the source, io.EOF excluded.
func (r *Reader) ReadFrom(src io.Reader) (int64, error) {
	var total int64

	for {
		buf := make([]byte, DefaultChunkSize)

		n, err := src.Read(buf)
		if n > 0 {
			if pushErr := r.Push(buf[:n]); pushErr != nil {
				return total, pushErr
			}
			total += int64(n)
		}

		if err != nil {
			r.CloseWithError(err)

			if errors.Is(err, io.EOF) {
				return total, nil
			}

			return total, err
		}
	}
}

// consume removes n bytes from the front of the buffer. The caller
// must hold r.mu and ensure that n bytes are buffered.
func (r *Reader) consume(n int) []byte {
	if n == 0 {
		return []byte{}
	}

	head := r.chunks[0][r.offset:]

	// fast path: the read lies entirely within the first chunk
	if len(head) >= n {
		buf := head[:n:n]
		r.advance(n)
		return buf
	}

	buf := make([]byte, n)
	copied := 0
	for copied < n {
		head := r.chunks[0][r.offset:]
		c := copy(buf[copied:], head)
		copied += c
		r.advance(c)
	}

	return buf
}

// advance drops n bytes of the first chunk, releasing it when
// it has been read completely.
func (r *Reader) advance(n int) {
	r.offset += n
	r.buffered -= n

	if r.offset == len(r.chunks[0]) {
		r.chunks[0] = nil
		r.chunks = r.chunks[1:]
		r.offset = 0
	}
}

func (r *Reader) signal() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}
