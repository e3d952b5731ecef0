package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lambda-feedback/hgserve/internal/execution"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"github.com/lambda-feedback/hgserve/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newRepository(t *testing.T, cwd string) (*repository.HgRepository, *execution.MockManager, *execution.Params) {
	t.Helper()

	manager := execution.NewMockManager(t)

	var captured execution.Params

	config := execution.DefaultConfig
	config.Supervisor.Start.Cwd = cwd

	repo, err := repository.New(repository.Params{
		Config: config,
		ManagerFactory: func(params execution.Params) (execution.Manager, error) {
			captured = params
			return manager, nil
		},
		Log: zap.NewNop(),
	})
	require.NoError(t, err)

	return repo, manager, &captured
}

func TestNew_ResolvesRoot(t *testing.T) {
	dir := t.TempDir()

	repo, _, params := newRepository(t, dir)

	assert.Equal(t, dir, repo.Root())
	assert.Equal(t, dir, params.Config.Supervisor.Start.Cwd)
}

func TestNew_DefaultsToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	repo, _, params := newRepository(t, "")

	assert.Equal(t, wd, repo.Root())
	assert.Equal(t, wd, params.Config.Supervisor.Start.Cwd)
}

func TestNew_RelativeRoot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	repo, _, _ := newRepository(t, "testdata")

	assert.Equal(t, filepath.Join(wd, "testdata"), repo.Root())
}

func TestRun_DelegatesToManager(t *testing.T) {
	repo, manager, _ := newRepository(t, t.TempDir())

	expected := &models.ExecutionResult{ExitCode: 0, Stdout: "default\n"}

	manager.EXPECT().Run(mock.Anything, []string{"branch"}).Return(expected, nil)

	result, err := repo.Run(context.Background(), "branch")
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestSession_DelegatesToManager(t *testing.T) {
	repo, manager, _ := newRepository(t, t.TempDir())

	session := supervisor.Session{ID: "abc", Encoding: "UTF-8", Capabilities: []string{"runcommand"}}
	manager.EXPECT().Session().Return(session, nil)

	got, err := repo.Session()
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestSetMode_DelegatesToManager(t *testing.T) {
	repo, manager, _ := newRepository(t, t.TempDir())

	manager.EXPECT().SetMode(mock.Anything, execution.ModeOneShot).Return(nil)
	manager.EXPECT().Mode().Return(execution.ModeOneShot)

	require.NoError(t, repo.SetMode(context.Background(), execution.ModeOneShot))
	assert.Equal(t, execution.ModeOneShot, repo.Mode())
}

func TestClose_RejectsFurtherCommands(t *testing.T) {
	repo, manager, _ := newRepository(t, t.TempDir())

	manager.EXPECT().Shutdown(mock.Anything).Return(nil).Once()

	require.NoError(t, repo.Close(context.Background()))
	require.NoError(t, repo.Close(context.Background()))

	_, err := repo.Run(context.Background(), "status")
	assert.ErrorIs(t, err, repository.ErrClosed)

	assert.ErrorIs(t, repo.Open(context.Background()), repository.ErrClosed)
	assert.ErrorIs(t, repo.SetMode(context.Background(), execution.ModeServer), repository.ErrClosed)
}

func TestNewLifecycleRepository_OpensAndCloses(t *testing.T) {
	manager := execution.NewMockManager(t)

	manager.EXPECT().Mode().Return(execution.ModeServer)
	manager.EXPECT().Start(mock.Anything).Return(nil).Once()
	manager.EXPECT().Shutdown(mock.Anything).Return(nil).Once()

	config := execution.DefaultConfig
	config.Supervisor.Start.Cwd = t.TempDir()

	var repo repository.Repository

	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		fx.Supply(repository.ManagerFactory(func(execution.Params) (execution.Manager, error) {
			return manager, nil
		})),
		repository.Module(config),
		fx.Populate(&repo),
	)

	app.RequireStart()
	assert.Equal(t, config.Supervisor.Start.Cwd, repo.Root())
	app.RequireStop()
}
