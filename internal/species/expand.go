package species

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/biosearch/genequery/internal/errors"
)

// Default expander configuration values.
const (
	DefaultExpandTimeout   = 5 * time.Second
	DefaultExpandCacheSize = 1024
)

// Expander calls the taxonomy service to expand taxonomy ids to their full
// taxonomic subtree. Responses are cached; concurrent calls for the same id
// set are collapsed into one request.
type Expander struct {
	client  *http.Client
	baseURL string
	cache   *lru.Cache[string, []int]
	group   singleflight.Group
}

// NewExpander creates an expansion client for the given service endpoint.
func NewExpander(baseURL string, timeout time.Duration) *Expander {
	if timeout <= 0 {
		timeout = DefaultExpandTimeout
	}
	cache, _ := lru.New[string, []int](DefaultExpandCacheSize)
	return &Expander{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cache:   cache,
	}
}

// Expand returns the full taxonomic subtree for the given ids.
// On any failure the caller must fall back to the unexpanded ids; the
// returned error is always a soft external error.
func (e *Expander) Expand(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	key := idsKey(ids)
	if cached, ok := e.cache.Get(key); ok {
		return copyIDs(cached), nil
	}

	result, err, _ := e.group.Do(key, func() (any, error) {
		expanded, err := e.fetch(ctx, ids)
		if err != nil {
			return nil, err
		}
		e.cache.Add(key, expanded)
		return expanded, nil
	})
	if err != nil {
		return nil, err
	}
	return copyIDs(result.([]int)), nil
}

// fetch performs the expansion round trip.
func (e *Expander) fetch(ctx context.Context, ids []int) ([]int, error) {
	u, err := url.Parse(e.baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTaxonomyExpansion, err)
	}
	q := u.Query()
	q.Set("ids", idsKey(ids))
	q.Set("expand_species", "true")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTaxonomyExpansion, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.ExternalError(errors.ErrCodeTaxonomyExpansion,
			"taxonomy expansion request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeTaxonomyExpansion,
			"taxonomy expansion returned status %d", resp.StatusCode)
	}

	var expanded []int
	if err := json.NewDecoder(resp.Body).Decode(&expanded); err != nil {
		return nil, errors.ExternalError(errors.ErrCodeTaxonomyExpansion,
			"decoding taxonomy expansion response", err)
	}
	return expanded, nil
}

// idsKey builds a deterministic cache key for an id list.
func idsKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, taxid := range ids {
		parts[i] = strconv.Itoa(taxid)
	}
	return strings.Join(parts, ",")
}

func copyIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}
