//go:build wireinject
// +build wireinject

package di

import (
	"MarketDash/pkg/config"
	"MarketDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideMongoClient,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideMarketDataRepository,
		ProvideSignalRepository,
		ProvideHoldingsRepository,
		ProvideUserRepository,
		ProvideHealthHistory,
		ProvideAlertPipeline,

		// Services
		ProvideEngine,
		ProvideAuthService,
		ProvideWebhookClient,
		ProvideRateLimiter,

		// Use cases
		ProvideMarketData,
		ProvideSignals,
		ProvidePositions,
		ProvideDashboard,
		ProvideAuth,
		ProvideLiveState,
		ProvideHub,
		ProvideMonitor,
		ProvideWebhooks,
		ProvideAnalysisEventsHandler,

		// Transport
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
