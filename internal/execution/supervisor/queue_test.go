package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueue_ShiftInOrder(t *testing.T) {
	q := &commandQueue{}

	a := newPendingCommand("runcommand", []string{"a"})
	b := newPendingCommand("runcommand", []string{"b"})

	require.NoError(t, q.push(a))
	require.NoError(t, q.push(b))
	assert.Equal(t, 2, q.Len())

	assert.Same(t, a, q.shift())
	assert.Same(t, b, q.shift())
	assert.Nil(t, q.shift())
}

func TestCommandQueue_Remove(t *testing.T) {
	q := &commandQueue{}

	a := newPendingCommand("runcommand", nil)
	b := newPendingCommand("runcommand", nil)

	require.NoError(t, q.push(a))
	require.NoError(t, q.push(b))

	q.remove(a)

	assert.Equal(t, 1, q.Len())
	assert.Same(t, b, q.shift())
}

func TestCommandQueue_CloseRejectsPending(t *testing.T) {
	q := &commandQueue{}

	a := newPendingCommand("runcommand", nil)
	require.NoError(t, q.push(a))

	q.close(ErrUnexpectedExit)

	_, err := a.Wait(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedExit)

	assert.ErrorIs(t, q.push(newPendingCommand("runcommand", nil)), ErrUnexpectedExit)
	assert.Zero(t, q.Len())
}

func TestPendingCommand_ResolvesOnce(t *testing.T) {
	p := newPendingCommand("runcommand", nil)

	p.resolve(models.ExecutionResult{ExitCode: 3})
	p.reject(ErrStopped)

	res, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestPendingCommand_WaitContext(t *testing.T) {
	p := newPendingCommand("runcommand", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-p.Done():
		t.Fatal("command must not be done")
	default:
	}
}

func TestBackoff(t *testing.T) {
	policy := RestartConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, backoff(policy, 0))
	assert.Equal(t, 400*time.Millisecond, backoff(policy, 2))
	assert.Equal(t, time.Second, backoff(policy, 4))
	assert.Equal(t, time.Second, backoff(policy, 80))
}
