// README: Tariff, supplement and holiday sources served by the VTC backend.
package pricing

import (
	"context"
	"log/slog"
	"net/url"

	"vtc/internal/logging"
	"vtc/internal/types"
)

// CatalogSource provides the tariff and supplement catalogs in a stable order.
type CatalogSource interface {
	Tariffs(ctx context.Context) ([]Tariff, error)
	Supplements(ctx context.Context) ([]Supplement, error)
}

// apiClient is the subset of backend.Client used here.
type apiClient interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
}

// BackendCatalog reads the catalogs over HTTP. A failed fetch is logged and
// yields an empty catalog, which pricing then reports as no applicable tariff.
type BackendCatalog struct {
	client apiClient
	log    *slog.Logger
}

func NewBackendCatalog(client apiClient, log *slog.Logger) *BackendCatalog {
	return &BackendCatalog{client: client, log: logging.OrDiscard(log)}
}

func (c *BackendCatalog) Tariffs(ctx context.Context) ([]Tariff, error) {
	var out []Tariff
	if err := c.client.Get(ctx, "/tariffs", nil, &out); err != nil {
		c.log.Error("fetch tariffs failed", "error", err)
		return []Tariff{}, nil
	}
	if out == nil {
		out = []Tariff{}
	}
	return out, nil
}

func (c *BackendCatalog) Supplements(ctx context.Context) ([]Supplement, error) {
	var out []Supplement
	if err := c.client.Get(ctx, "/supplements", nil, &out); err != nil {
		c.log.Error("fetch supplements failed", "error", err)
		return []Supplement{}, nil
	}
	if out == nil {
		out = []Supplement{}
	}
	return out, nil
}

// BackendHolidays asks GET /holidays/check?date=YYYY-MM-DD.
type BackendHolidays struct {
	client apiClient
}

func NewBackendHolidays(client apiClient) *BackendHolidays {
	return &BackendHolidays{client: client}
}

func (h *BackendHolidays) IsHoliday(ctx context.Context, date types.Date) (bool, error) {
	var resp struct {
		IsHoliday bool   `json:"is_holiday"`
		Reason    string `json:"reason,omitempty"`
	}
	if err := h.client.Get(ctx, "/holidays/check", url.Values{"date": {date.String()}}, &resp); err != nil {
		return false, err
	}
	return resp.IsHoliday, nil
}
