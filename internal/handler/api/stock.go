package api

import (
	"KeepItBased/internal/domain/models"
	"KeepItBased/internal/usecase"
	xhttp "KeepItBased/pkg/http"
	xlogger "KeepItBased/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler serves the equity endpoints and symbol search.
type StockHandler struct {
	logger *xlogger.Logger
	market *usecase.Market
}

func NewStockHandler(logger *xlogger.Logger, market *usecase.Market) *StockHandler {
	return &StockHandler{logger: logger, market: market}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/search", h.Search)
	g := e.Group("/api/stock")
	g.GET("/:symbol/quote", h.Quote)
	g.GET("/:symbol/history", h.History)
	g.GET("/:symbol/info", h.Info)
	g.GET("/:symbol/technical", h.Technical)
}

func (h *StockHandler) Quote(c echo.Context) error {
	symbol := c.Param("symbol")
	quote, err := h.market.GetStockQuote(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("stock quote failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("equity provider unavailable").WithError(err))
	}
	if quote == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("unknown symbol %q", symbol))
	}
	return xhttp.SuccessResponse(c, quote)
}

func (h *StockHandler) History(c echo.Context) error {
	symbol := c.Param("symbol")
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	history, err := h.market.GetStockHistory(c.Request().Context(), symbol, req.Period, req.Interval)
	if err != nil {
		h.logger.Error("stock history failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("equity provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, history)
}

func (h *StockHandler) Info(c echo.Context) error {
	symbol := c.Param("symbol")
	info, err := h.market.GetStockInfo(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("stock info failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("equity provider unavailable").WithError(err))
	}
	if info == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("unknown symbol %q", symbol))
	}
	return xhttp.SuccessResponse(c, info)
}

func (h *StockHandler) Technical(c echo.Context) error {
	symbol := c.Param("symbol")
	req := &models.TechnicalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.market.GetStockTechnical(c.Request().Context(), symbol, req.Period)
	if err != nil {
		h.logger.Error("stock technical failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("equity provider unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, points)
}

func (h *StockHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.market.Search(c.Request().Context(), req.Query))
}
