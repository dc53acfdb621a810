package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/handler/api"
	mid "MarketDash/internal/middleware"
	internalrepo "MarketDash/internal/repository"
	"MarketDash/internal/service/auth"
	"MarketDash/internal/service/ratelimit"
	"MarketDash/internal/services/divergence"
	"MarketDash/internal/services/webhook"
	"MarketDash/internal/usecase"
	"MarketDash/pkg/cache"
	pkgch "MarketDash/pkg/clickhouse"
	"MarketDash/pkg/config"
	xhttp "MarketDash/pkg/http"
	pkgkafka "MarketDash/pkg/kafka"
	applogger "MarketDash/pkg/logger"
	"MarketDash/pkg/metrics"
	pkgmongo "MarketDash/pkg/mongo"
	"MarketDash/pkg/server"
)

const webhookRetryBackoff = 500 * time.Millisecond

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New(nil)
}

// ProvideMongoClient connects to the database holding the workflow output.
func ProvideMongoClient(cfg *config.Config) (*pkgmongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	client, err := pkgmongo.NewClient(ctx,
		pkgmongo.WithURI(cfg.Mongo.URI),
		pkgmongo.WithDatabase(cfg.Mongo.Database),
		pkgmongo.WithTimeout(cfg.Mongo.Timeout),
		pkgmongo.WithMaxPoolSize(20),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo client: %w", err)
	}
	return client, nil
}

func ProvideMarketDataRepository(c *pkgmongo.Client, cfg *config.Config) domrepo.MarketDataRepository {
	return internalrepo.NewMongoMarketData(c, cfg.Mongo.Collections.MarketData)
}

// ProvideSignalRepository returns nil when no collection is configured.
func ProvideSignalRepository(c *pkgmongo.Client, cfg *config.Config) domrepo.SignalRepository {
	if cfg.Mongo.Collections.TradingSignals == "" {
		return nil
	}
	return internalrepo.NewMongoSignals(c, cfg.Mongo.Collections.TradingSignals)
}

// ProvideHoldingsRepository returns nil when no collection is configured.
func ProvideHoldingsRepository(c *pkgmongo.Client, cfg *config.Config) domrepo.HoldingsRepository {
	if cfg.Mongo.Collections.Holdings == "" {
		return nil
	}
	return internalrepo.NewMongoHoldings(c, cfg.Mongo.Collections.Holdings)
}

// ProvideUserRepository returns nil when no collection is configured.
func ProvideUserRepository(c *pkgmongo.Client, cfg *config.Config) domrepo.UserRepository {
	if cfg.Mongo.Collections.Users == "" {
		return nil
	}
	return internalrepo.NewMongoUsers(c, cfg.Mongo.Collections.Users)
}

// ProvideCache builds the read cache: memory in front of Redis when Redis is
// enabled, memory alone otherwise. A disabled cache is a nil Service.
func ProvideCache(cfg *config.Config, log *applogger.Logger) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}

	addr := net.JoinHostPort(cfg.Cache.Redis.Host, strconv.Itoa(cfg.Cache.Redis.Port))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(addr),
		cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("redis cache enabled", applogger.String("addr", addr))
	return cache.NewLayeredCache(redisCache,
		cache.WithLayeredMemorySize(cfg.Cache.MemorySize),
		cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
	), nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithAuth(cfg.ClickHouse.Database, cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideHealthHistory creates the health history table on first use.
func ProvideHealthHistory(ch *pkgch.Client, log *applogger.Logger) (domrepo.HealthHistoryStore, error) {
	if ch == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := internalrepo.NewCHHealthHistory(ch, log)
	if err := store.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPipeline puts a dedup and retry buffer in front of the Kafka
// alert topic.
func ProvideAlertPipeline(producer *pkgkafka.Producer, m domrepo.Metrics, cfg *config.Config) *mid.AlertPipeline {
	if producer == nil {
		return nil
	}
	pub := internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
	return mid.NewAlertPipeline(pub, m,
		mid.WithBufferSize(256),
		mid.WithDedupWindow(24*time.Hour),
	)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

func ProvideEngine() *divergence.Engine {
	return divergence.NewEngine()
}

func ProvideAuthService(cfg *config.Config) *auth.Service {
	return auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func ProvideWebhookClient(cfg *config.Config) *webhook.Client {
	return webhook.NewClient(cfg.Webhooks.Timeout,
		webhook.WithRetry(cfg.Webhooks.RetryAttempts, webhookRetryBackoff),
	)
}

func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideMarketData(
	repo domrepo.MarketDataRepository,
	engine *divergence.Engine,
	m domrepo.Metrics,
	c cache.Service,
	history domrepo.HealthHistoryStore,
	cfg *config.Config,
) *usecase.MarketData {
	return usecase.NewMarketData(repo, engine, m,
		usecase.WithMarketDataCache(c, cfg.Cache.TTL),
		usecase.WithHealthHistory(history),
		usecase.WithHistoryLimit(cfg.Monitor.HistoryLimit),
	)
}

func ProvideSignals(repo domrepo.SignalRepository, c cache.Service, m domrepo.Metrics, cfg *config.Config) *usecase.Signals {
	return usecase.NewSignals(repo, c, cfg.Cache.TTL, cfg.Monitor.SignalsLimit, m)
}

func ProvidePositions(repo domrepo.HoldingsRepository, m domrepo.Metrics) *usecase.Positions {
	return usecase.NewPositions(repo, m)
}

func ProvideDashboard(market *usecase.MarketData, signals *usecase.Signals, positions *usecase.Positions) *usecase.Dashboard {
	return usecase.NewDashboard(market, signals, positions)
}

func ProvideAuth(users domrepo.UserRepository, tokens *auth.Service, log *applogger.Logger) *usecase.Auth {
	return usecase.NewAuth(users, tokens, log)
}

// liveState gives the websocket hub the monitor's last update. The hub is
// built before the monitor it reads from.
type liveState struct {
	monitor *usecase.DivergenceMonitor
}

func ProvideLiveState() *liveState {
	return &liveState{}
}

func (s *liveState) current() any {
	if s.monitor == nil {
		return nil
	}
	if u := s.monitor.Last(); u != nil {
		return usecase.LiveMessage{Type: "divergence", Data: u}
	}
	return nil
}

func ProvideHub(log *applogger.Logger, live *liveState) *api.Hub {
	return api.NewHub(log, live.current)
}

// ProvideMonitor builds the divergence monitor. A new analysis run drops the
// cached market reads before it is evaluated.
func ProvideMonitor(
	repo domrepo.MarketDataRepository,
	engine *divergence.Engine,
	m domrepo.Metrics,
	log *applogger.Logger,
	pipeline *mid.AlertPipeline,
	history domrepo.HealthHistoryStore,
	hub *api.Hub,
	market *usecase.MarketData,
	live *liveState,
	cfg *config.Config,
) *usecase.DivergenceMonitor {
	opts := []usecase.MonitorOption{
		usecase.WithMonitorInterval(cfg.Monitor.Interval),
		usecase.WithBroadcaster(hub),
		usecase.WithOnChange(market.Invalidate),
	}
	if pipeline != nil {
		opts = append(opts, usecase.WithAlertPublisher(pipeline))
	}
	if history != nil {
		opts = append(opts, usecase.WithHistoryStore(history))
	}
	monitor := usecase.NewDivergenceMonitor(repo, engine, m, log, opts...)
	live.monitor = monitor
	return monitor
}

func ProvideWebhooks(
	client *webhook.Client,
	limiter *ratelimit.Limiter,
	monitor *usecase.DivergenceMonitor,
	m domrepo.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Webhooks {
	urls := usecase.WebhookURLs{
		MarketConditions: cfg.Webhooks.MarketConditions,
		StockAnalysis:    cfg.Webhooks.StockAnalysis,
		LiveHoldings:     cfg.Webhooks.LiveHoldings,
		Lynch:            cfg.Webhooks.Lynch,
		LynchToken:       cfg.Webhooks.LynchToken,
	}
	limit := usecase.RateLimit{Capacity: cfg.RateLimit.Capacity, RefillPerSec: cfg.RateLimit.RefillPerSec}
	return usecase.NewWebhooks(client, urls, limiter, limit, monitor, m, log)
}

// ProvideAnalysisEventsHandler returns nil when Kafka is off.
func ProvideAnalysisEventsHandler(monitor *usecase.DivergenceMonitor, log *applogger.Logger, cfg *config.Config) pkgkafka.MessageHandler {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return usecase.NewAnalysisEventsHandler(cfg.Kafka.Consumer.EventsTopic, monitor, log)
}

// ProvideHTTPHandler registers every route. Login and the websocket stream
// stay outside the token middleware.
func ProvideHTTPHandler(
	log *applogger.Logger,
	tokens *auth.Service,
	authUC *usecase.Auth,
	market *usecase.MarketData,
	signals *usecase.Signals,
	positions *usecase.Positions,
	dashboard *usecase.Dashboard,
	webhooks *usecase.Webhooks,
	hub *api.Hub,
	cfg *config.Config,
) xhttp.Handler {
	authMW := tokens.Middleware(cfg.Auth.RequireToken)
	return xhttp.Handlers{
		api.NewAuthHandler(log, authUC),
		api.NewMarketHandler(log, market, authMW),
		api.NewDashboardHandler(log, signals, positions, dashboard, authMW),
		api.NewWebhooksHandler(log, webhooks, authMW),
		hub,
	}
}

func ProvideHTTPServer(handler xhttp.Handler, log *applogger.Logger, cfg *config.Config) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path))
	}
	return xhttp.NewServer(handler, log, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	monitor *usecase.DivergenceMonitor,
	pipeline *mid.AlertPipeline,
	consumer *pkgkafka.Consumer,
	events pkgkafka.MessageHandler,
	hub *api.Hub,
	mongoClient *pkgmongo.Client,
	chClient *pkgch.Client,
	c cache.Service,
) *server.App {
	app := server.New(cfg, log,
		server.WithHTTPServer(srv),
		server.WithMonitor(monitor),
		server.WithHub(hub),
	)
	if pipeline != nil {
		app.Use(server.WithAlertPipeline(pipeline))
	}
	if consumer != nil && events != nil {
		app.Use(server.WithConsumer(consumer, events))
	}
	if mongoClient != nil {
		app.Use(server.WithCloser("mongo", mongoClient.Close))
	}
	if chClient != nil {
		app.Use(server.WithCloser("clickhouse", func(context.Context) error { return chClient.Close() }))
	}
	if closer, ok := c.(interface{ Close() error }); ok {
		app.Use(server.WithCloser("cache", func(context.Context) error { return closer.Close() }))
	}
	return app
}
