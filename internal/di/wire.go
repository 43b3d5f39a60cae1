//go:build wireinject
// +build wireinject

package di

import (
	"KeepItBased/pkg/config"
	"KeepItBased/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Providers (market data sources)
		ProvideCryptoSource,
		ProvideEquitySource,
		ProvideTickerStream,

		// Use cases
		ProvideMarket,
		ProvideTickerCollector,

		// HTTP surface
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
