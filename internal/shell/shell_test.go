package shell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lambda-feedback/hgserve/internal/shell"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func shutdownWith(code int) fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return shutdowner.Shutdown(fx.ExitCode(code))
			},
		})
	})
}

func TestShell_Run_ExitCode(t *testing.T) {
	s := shell.New(zap.NewNop())

	err := s.Run(context.Background(), shutdownWith(3))

	assert.Equal(t, 3, shell.ExitCode(err))
}

func TestShell_Run_Success(t *testing.T) {
	s := shell.New(zap.NewNop())

	err := s.Run(context.Background(), shutdownWith(0))

	assert.NoError(t, err)
}

func TestShell_Run_StartFailure(t *testing.T) {
	s := shell.New(zap.NewNop())

	err := s.Run(context.Background(), fx.Invoke(func(lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return errors.New("boom")
			},
		})
	}))

	assert.Equal(t, 1, shell.ExitCode(err))
}

func TestShell_Run_ProvidesLoggerAndContext(t *testing.T) {
	log := zap.NewNop()
	s := shell.New(log)

	var gotLog *zap.Logger
	var gotCtx context.Context

	err := s.Run(context.Background(),
		fx.Invoke(func(l *zap.Logger, ctx context.Context) {
			gotLog = l
			gotCtx = ctx
		}),
		shutdownWith(0),
	)

	assert.NoError(t, err)
	assert.Same(t, log, gotLog)
	assert.NotNil(t, gotCtx)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, shell.ExitCode(nil))
	assert.Equal(t, 1, shell.ExitCode(errors.New("plain")))
	assert.Equal(t, 5, shell.ExitCode(fmt.Errorf("wrapped: %w", shell.NewExitError(5))))
}
