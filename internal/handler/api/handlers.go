package api

import "github.com/labstack/echo/v4"

// Handlers bundles every route group into a single registrar for the server.
type Handlers struct {
	Crypto *CryptoHandler
	Stock  *StockHandler
}

func NewHandlers(crypto *CryptoHandler, stock *StockHandler) *Handlers {
	return &Handlers{Crypto: crypto, Stock: stock}
}

func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	h.Crypto.RegisterRoutes(e)
	h.Stock.RegisterRoutes(e)
}
