package api

import (
	"KeepItBased/internal/domain/models"
	"KeepItBased/internal/domain/repository"
	"KeepItBased/internal/usecase"
	xhttp "KeepItBased/pkg/http"
	xlogger "KeepItBased/pkg/logger"
	"KeepItBased/pkg/util"

	"github.com/labstack/echo/v4"
)

// CryptoHandler serves the crypto market endpoints.
type CryptoHandler struct {
	logger    *xlogger.Logger
	market    *usecase.Market
	collector *usecase.TickerCollector
}

// NewCryptoHandler creates the handler. collector may be nil when the live
// stream is disabled.
func NewCryptoHandler(logger *xlogger.Logger, market *usecase.Market, collector *usecase.TickerCollector) *CryptoHandler {
	return &CryptoHandler{logger: logger, market: market, collector: collector}
}

func (h *CryptoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	g := e.Group("/api/crypto")
	g.GET("/pairs", h.Pairs)
	g.GET("/intervals", h.Intervals)
	g.GET("/ticker/:pair", h.Ticker)
	g.GET("/ohlc/:pair", h.OHLC)
	g.GET("/orderbook/:pair", h.OrderBook)
	g.GET("/trades/:pair", h.Trades)
	g.GET("/indicators/:pair", h.Indicators)
	g.GET("/summary/:pair", h.Summary)
}

func (h *CryptoHandler) Health(c echo.Context) error {
	status := h.market.CheckHealth(c.Request().Context())
	if h.collector != nil {
		if h.collector.IsConnected() {
			status["ticker_stream"] = "connected"
		} else {
			status["ticker_stream"] = "disconnected"
		}
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *CryptoHandler) Pairs(c echo.Context) error {
	pairs, err := h.market.ListTradingPairs(c.Request().Context())
	if err != nil {
		h.logger.Error("list pairs failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, pairs)
}

func (h *CryptoHandler) Intervals(c echo.Context) error {
	return xhttp.SuccessResponse(c, repository.SupportedIntervals())
}

func (h *CryptoHandler) Ticker(c echo.Context) error {
	pair := c.Param("pair")
	snap, err := h.market.GetTicker(c.Request().Context(), pair)
	if err != nil {
		h.logger.Error("ticker failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	if snap == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("unknown pair %q", pair))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *CryptoHandler) OHLC(c echo.Context) error {
	pair := c.Param("pair")
	req := &models.OHLCRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	var since int64
	if req.Since != "" {
		t, ok := util.ParseTime(req.Since)
		if !ok {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestErrorf("since %q is not unix seconds or RFC3339", req.Since))
		}
		since = t.Unix()
	}

	series, err := h.market.GetOHLC(c.Request().Context(), pair, req.Interval, since, req.Limit)
	if err != nil {
		h.logger.Error("ohlc failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *CryptoHandler) OrderBook(c echo.Context) error {
	pair := c.Param("pair")
	req := &models.OrderBookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	book, err := h.market.GetOrderBook(c.Request().Context(), pair, req.Depth)
	if err != nil {
		h.logger.Error("order book failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	if book == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("unknown pair %q", pair))
	}
	return xhttp.SuccessResponse(c, book)
}

func (h *CryptoHandler) Trades(c echo.Context) error {
	pair := c.Param("pair")
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	list, err := h.market.GetRecentTrades(c.Request().Context(), pair, req.Limit)
	if err != nil {
		h.logger.Error("trades failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	if list == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("unknown pair %q", pair))
	}
	return xhttp.SuccessResponse(c, list)
}

func (h *CryptoHandler) Indicators(c echo.Context) error {
	pair := c.Param("pair")
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bundle, err := h.market.GetIndicators(c.Request().Context(), pair, req.Interval, req.Limit)
	if err != nil {
		h.logger.Error("indicators failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, bundle)
}

func (h *CryptoHandler) Summary(c echo.Context) error {
	pair := c.Param("pair")
	summary, err := h.market.GetMarketSummary(c.Request().Context(), pair)
	if err != nil {
		h.logger.Error("summary failed", xlogger.String("pair", pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("crypto provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, summary)
}
