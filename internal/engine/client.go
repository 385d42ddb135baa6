// Package engine is the thin HTTP client for the document engine that
// executes compiled queries. Query compilation never depends on this
// package; the engine is an opaque collaborator behind an RPC boundary.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/errors"
	"github.com/biosearch/genequery/internal/search"
)

// DefaultTimeout bounds a single search round trip.
const DefaultTimeout = 10 * time.Second

// Client executes compiled queries against the document engine.
type Client struct {
	client  *http.Client
	baseURL string
	cfg     config.EngineConfig
	species config.SpeciesConfig
	logger  *slog.Logger
}

// NewClient creates an engine client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := cfg.Engine.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.Engine.URL,
		cfg:     cfg.Engine,
		species: cfg.Species,
		logger:  logger,
	}
}

// Result is the decoded engine response for a search request.
type Result struct {
	Took     int   `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Total    int64 `json:"total"`
	MaxScore any   `json:"max_score"`
	Hits     []Hit `json:"hits"`
}

// Hit is a single matched document. Source is kept raw; callers decode
// the fields they asked for.
type Hit struct {
	ID     string          `json:"_id"`
	Score  any             `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// rawResult mirrors the engine's wire shape before flattening.
type rawResult struct {
	Took     int  `json:"took"`
	TimedOut bool `json:"timed_out"`
	Hits     struct {
		Total    int64 `json:"total"`
		MaxScore any   `json:"max_score"`
		Hits     []Hit `json:"hits"`
	} `json:"hits"`
}

// Search executes a compiled query against the given index partition.
func (c *Client) Search(ctx context.Context, index string, compiled *search.Compiled) (*Result, error) {
	body, err := json.Marshal(compiled.Body())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, index)
	c.logger.Debug("executing search",
		slog.String("index", index),
		slog.Int("body_bytes", len(body)))

	var raw rawResult
	if err := c.do(ctx, http.MethodPost, url, body, &raw); err != nil {
		return nil, err
	}

	return &Result{
		Took:     raw.Took,
		TimedOut: raw.TimedOut,
		Total:    raw.Hits.Total,
		MaxScore: raw.Hits.MaxScore,
		Hits:     raw.Hits.Hits,
	}, nil
}

// Metadata describes the index: the mapping's _meta section augmented
// with the taxonomy and genome-assembly tables the compiler works from.
// Diagnostic use only.
func (c *Client) Metadata(ctx context.Context) (map[string]any, error) {
	url := fmt.Sprintf("%s/%s/_mapping", c.baseURL, c.cfg.Index)

	var mapping map[string]any
	if err := c.do(ctx, http.MethodGet, url, nil, &mapping); err != nil {
		return nil, err
	}

	meta := extractMeta(mapping)
	meta["genome_assembly"] = c.species.Assemblies
	meta["taxonomy"] = c.species.Taxonomy
	return meta, nil
}

// do performs one engine round trip and decodes the JSON response.
// Every failure mode maps to the engine-unavailable code; callers treat
// the engine as a single opaque collaborator.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.ExternalError(errors.ErrCodeEngineUnavailable,
			"engine request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Newf(errors.ErrCodeEngineUnavailable,
			"engine returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ExternalError(errors.ErrCodeEngineUnavailable,
			"decoding engine response", err)
	}
	return nil
}

// extractMeta digs the _meta section out of a mapping response, which
// nests it under the index and type names. Returns an empty map when the
// mapping carries no metadata.
func extractMeta(mapping map[string]any) map[string]any {
	for _, indexBody := range mapping {
		body, ok := indexBody.(map[string]any)
		if !ok {
			continue
		}
		mappings, ok := body["mappings"].(map[string]any)
		if !ok {
			continue
		}
		if meta, ok := mappings["_meta"].(map[string]any); ok {
			return meta
		}
		for _, typeBody := range mappings {
			tb, ok := typeBody.(map[string]any)
			if !ok {
				continue
			}
			if meta, ok := tb["_meta"].(map[string]any); ok {
				return meta
			}
		}
	}
	return map[string]any{}
}
