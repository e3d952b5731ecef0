package repository

import "go.uber.org/fx"

// Module provides a repository module.
func Module(config Config) fx.Option {
	return fx.Module(
		"repository",

		// provide execution config
		fx.Supply(config),

		// provide repository, opened with the application
		fx.Provide(NewLifecycleRepository),
	)
}
