package market

import (
	"context"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubClient serves the news_search and financial_data_search tools.
type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnhubClient{client: client}
}

func (c *FinnhubClient) MarketNews(ctx context.Context, category string, limit int) ([]NewsItem, error) {
	if category == "" {
		category = "general"
	}

	res, _, err := c.client.MarketNews(ctx).Category(category).Execute()
	if err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, len(res))
	for _, news := range res {
		item := NewsItem{}

		if news.Headline != nil {
			item.Headline = *news.Headline
		}
		if news.Summary != nil {
			item.Summary = *news.Summary
		}
		if news.Url != nil {
			item.URL = *news.Url
		}
		if news.Source != nil {
			item.Publisher = *news.Source
		}
		if news.Datetime != nil {
			item.PublishedAt = formatTimestamp(time.Unix(*news.Datetime, 0))
		}
		if news.Related != nil && *news.Related != "" {
			item.Symbols = strings.Split(*news.Related, ",")
		}

		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, nil
}

func (c *FinnhubClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsItem, error) {
	const dateLayout = "2006-01-02"

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format(dateLayout)).
		To(to.Format(dateLayout)).
		Execute()
	if err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, len(res))
	for _, news := range res {
		item := NewsItem{Symbols: []string{symbol}}

		if news.Headline != nil {
			item.Headline = *news.Headline
		}
		if news.Summary != nil {
			item.Summary = *news.Summary
		}
		if news.Url != nil {
			item.URL = *news.Url
		}
		if news.Source != nil {
			item.Publisher = *news.Source
		}
		if news.Datetime != nil {
			item.PublishedAt = formatTimestamp(time.Unix(*news.Datetime, 0))
		}

		items = append(items, item)
	}

	return items, nil
}

func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	res, _, err := c.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Symbol:    symbol,
		Timestamp: formatTimestamp(time.Now()),
	}

	if res.C != nil {
		quote.Current = float64(*res.C)
	}
	if res.D != nil {
		quote.Change = float64(*res.D)
	}
	if res.Dp != nil {
		quote.PercentChange = float64(*res.Dp)
	}
	if res.H != nil {
		quote.High = float64(*res.H)
	}
	if res.L != nil {
		quote.Low = float64(*res.L)
	}
	if res.O != nil {
		quote.Open = float64(*res.O)
	}
	if res.Pc != nil {
		quote.PreviousClose = float64(*res.Pc)
	}

	return quote, nil
}
