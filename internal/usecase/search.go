package usecase

import (
	"context"
	"strings"

	"KeepItBased/internal/domain/models"
)

const maxSearchResults = 10

// symbolDirectory is the static equity directory the search endpoint runs
// over. Lookups never leave the process.
var symbolDirectory = []models.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ"},
	{Symbol: "BRK-B", Name: "Berkshire Hathaway Inc.", Exchange: "NYSE"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE"},
	{Symbol: "V", Name: "Visa Inc.", Exchange: "NYSE"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Exchange: "NYSE"},
	{Symbol: "WMT", Name: "Walmart Inc.", Exchange: "NYSE"},
	{Symbol: "PG", Name: "The Procter & Gamble Company", Exchange: "NYSE"},
	{Symbol: "MA", Name: "Mastercard Incorporated", Exchange: "NYSE"},
	{Symbol: "HD", Name: "The Home Depot, Inc.", Exchange: "NYSE"},
	{Symbol: "DIS", Name: "The Walt Disney Company", Exchange: "NYSE"},
	{Symbol: "BAC", Name: "Bank of America Corporation", Exchange: "NYSE"},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Exchange: "NYSE"},
	{Symbol: "KO", Name: "The Coca-Cola Company", Exchange: "NYSE"},
	{Symbol: "PEP", Name: "PepsiCo, Inc.", Exchange: "NASDAQ"},
	{Symbol: "INTC", Name: "Intel Corporation", Exchange: "NASDAQ"},
	{Symbol: "AMD", Name: "Advanced Micro Devices, Inc.", Exchange: "NASDAQ"},
	{Symbol: "NFLX", Name: "Netflix, Inc.", Exchange: "NASDAQ"},
	{Symbol: "CRM", Name: "Salesforce, Inc.", Exchange: "NYSE"},
	{Symbol: "ORCL", Name: "Oracle Corporation", Exchange: "NYSE"},
	{Symbol: "CSCO", Name: "Cisco Systems, Inc.", Exchange: "NASDAQ"},
	{Symbol: "ADBE", Name: "Adobe Inc.", Exchange: "NASDAQ"},
	{Symbol: "PYPL", Name: "PayPal Holdings, Inc.", Exchange: "NASDAQ"},
	{Symbol: "UBER", Name: "Uber Technologies, Inc.", Exchange: "NYSE"},
	{Symbol: "COIN", Name: "Coinbase Global, Inc.", Exchange: "NASDAQ"},
}

// Search matches the query case-insensitively against symbol and company
// name, symbol prefix matches first, capped at ten results.
func (uc *Market) Search(ctx context.Context, query string) []models.SearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return []models.SearchResult{}
	}

	key := CacheKey(KindSearch, q)
	var cached []models.SearchResult
	if uc.cacheGet(ctx, KindSearch, key, &cached) {
		return cached
	}

	prefix := make([]models.SearchResult, 0, maxSearchResults)
	rest := make([]models.SearchResult, 0, maxSearchResults)
	for _, entry := range symbolDirectory {
		symbol := strings.ToUpper(entry.Symbol)
		name := strings.ToUpper(entry.Name)
		switch {
		case strings.HasPrefix(symbol, q):
			prefix = append(prefix, entry)
		case strings.Contains(symbol, q) || strings.Contains(name, q):
			rest = append(rest, entry)
		}
	}

	results := append(prefix, rest...)
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	uc.cacheSet(ctx, key, results, TTLFor(KindSearch, 0))
	return results
}
