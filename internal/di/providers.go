package di

import (
	"fmt"

	"KeepItBased/internal/domain/repository"
	"KeepItBased/internal/handler/api"
	"KeepItBased/internal/provider/kraken"
	"KeepItBased/internal/provider/yahoo"
	"KeepItBased/internal/service/krakenws"
	"KeepItBased/internal/usecase"
	"KeepItBased/pkg/cache"
	"KeepItBased/pkg/config"
	xhttp "KeepItBased/pkg/http"
	applogger "KeepItBased/pkg/logger"
	"KeepItBased/pkg/metrics"
	"KeepItBased/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache selects the cache backend from config. "none" yields nil and
// the engine degrades to always-fetch.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
		), nil
	default:
		return nil, nil
	}
}

// ProvideCryptoSource creates the Kraken REST client.
func ProvideCryptoSource(cfg *config.Config) usecase.CryptoSource {
	return kraken.NewClient(cfg.Kraken.RESTURL, cfg.Kraken.Timeout)
}

// ProvideEquitySource creates the Yahoo Finance REST client.
func ProvideEquitySource(cfg *config.Config) usecase.EquitySource {
	return yahoo.NewClient(cfg.Yahoo.ChartURL, cfg.Yahoo.SummaryURL, cfg.Yahoo.UserAgent, cfg.Yahoo.Timeout)
}

// ProvideMarket creates the market use case.
func ProvideMarket(
	crypto usecase.CryptoSource,
	equity usecase.EquitySource,
	cacheSvc cache.Service,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Market {
	return usecase.NewMarket(crypto, equity, cacheSvc, m, log)
}

// ProvideTickerStream creates the Kraken WebSocket stream, or nil when
// disabled.
func ProvideTickerStream(cfg *config.Config, log *applogger.Logger) repository.TickerStream {
	if !cfg.Kraken.Stream.Enabled {
		return nil
	}
	return krakenws.New(
		cfg.Kraken.WebSocketURL,
		cfg.Kraken.Stream.Pairs,
		cfg.Kraken.Stream.ReconnectDelay,
		cfg.Kraken.Stream.PingInterval,
		log,
	)
}

// ProvideTickerCollector creates the cache-warming collector, or nil when the
// stream is disabled.
func ProvideTickerCollector(
	stream repository.TickerStream,
	cacheSvc cache.Service,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.TickerCollector {
	if stream == nil {
		return nil
	}
	return usecase.NewTickerCollector(stream, cacheSvc, m, log)
}

// ProvideHandlers bundles the HTTP route groups.
func ProvideHandlers(
	log *applogger.Logger,
	market *usecase.Market,
	collector *usecase.TickerCollector,
) xhttp.Handler {
	crypto := api.NewCryptoHandler(log, market, collector)
	stock := api.NewStockHandler(log, market)
	return api.NewHandlers(crypto, stock)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.TickerCollector,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, log, handler, collector, cacheSvc)
}
