// Package config holds the immutable configuration for genequery.
//
// All tables that drive query compilation (taxonomy, assemblies, tier-1
// species, boost rules, source translations) are loaded once at process
// start and passed explicitly into the compiler. Nothing here is mutated
// after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete genequery configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine" json:"engine"`
	Species SpeciesConfig `yaml:"species" json:"species"`
	Query   QueryConfig   `yaml:"query" json:"query"`
	Filters FiltersConfig `yaml:"filters" json:"filters"`
}

// EngineConfig configures the execution-engine collaborator.
type EngineConfig struct {
	// URL is the base URL of the document search engine.
	URL string `yaml:"url" json:"url"`

	// Index is the full index partition, serving every species.
	Index string `yaml:"index" json:"index"`

	// IndexTier1 is the reduced partition serving only tier-1 species.
	IndexTier1 string `yaml:"index_tier1" json:"index_tier1"`

	// Timeout bounds a single search round trip.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// SpeciesConfig configures species resolution.
type SpeciesConfig struct {
	// Taxonomy maps common species names to taxonomy ids.
	Taxonomy map[string]int `yaml:"taxonomy" json:"taxonomy"`

	// Assemblies maps species names to their default genome assembly.
	Assemblies map[string]string `yaml:"assemblies" json:"assemblies"`

	// Default is the fallback species set when the caller supplies none.
	Default []int `yaml:"default" json:"default"`

	// Tier1 lists taxonomy ids served from the reduced index partition.
	// Empty means every id in Taxonomy is tier-1.
	Tier1 []int `yaml:"tier1" json:"tier1"`

	// ExpansionURL is the taxonomy subtree expansion service endpoint.
	// Empty disables expansion.
	ExpansionURL string `yaml:"expansion_url" json:"expansion_url"`

	// ExpansionTimeout bounds a single expansion call.
	ExpansionTimeout time.Duration `yaml:"expansion_timeout" json:"expansion_timeout"`
}

// Translation rewrites one legacy field-name token to its current name.
type Translation struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// BoostRule multiplies the score of hits matching a term predicate.
type BoostRule struct {
	Field  string  `yaml:"field" json:"field"`
	Value  any     `yaml:"value" json:"value"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// QueryConfig configures query construction.
type QueryConfig struct {
	// Translations is the ordered legacy field-name rewrite table,
	// applied to the raw query string before building.
	Translations []Translation `yaml:"translations" json:"translations"`

	// Boosts is the fixed function-score rule list, evaluated in order
	// with first-matching-rule-wins semantics.
	Boosts []BoostRule `yaml:"boosts" json:"boosts"`

	// DefaultFields is the default _source selection for hits.
	DefaultFields []string `yaml:"default_fields" json:"default_fields"`
}

// FiltersConfig configures the saved named-filter store.
type FiltersConfig struct {
	// StorePath is the sqlite database holding saved filters.
	// Empty disables saved-filter resolution.
	StorePath string `yaml:"store_path" json:"store_path"`
}

// DefaultFilterStorePath returns the default saved-filter database path
// (~/.genequery/filters.db). Falls back to the temp directory when the
// home directory is unavailable.
func DefaultFilterStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".genequery", "filters.db")
	}
	return filepath.Join(home, ".genequery", "filters.db")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			URL:        "http://localhost:9200",
			Index:      "genedoc_all",
			IndexTier1: "genedoc_tier1",
			Timeout:    10 * time.Second,
		},
		Species: SpeciesConfig{
			Taxonomy: map[string]int{
				"human":       9606,
				"mouse":       10090,
				"rat":         10116,
				"fruitfly":    7227,
				"nematode":    6239,
				"zebrafish":   7955,
				"thale-cress": 3702,
				"frog":        8364,
				"pig":         9823,
			},
			Assemblies: map[string]string{
				"human":     "hg38",
				"mouse":     "mm10",
				"rat":       "rn4",
				"fruitfly":  "dm3",
				"nematode":  "ce10",
				"zebrafish": "zv9",
				"frog":      "xenTro3",
				"pig":       "susScr2",
			},
			Default:          []int{9606, 10090, 10116},
			ExpansionTimeout: 5 * time.Second,
		},
		Query: QueryConfig{
			Boosts: []BoostRule{
				// Downgrade low-information display names first so the
				// first-match-wins mode never lets a species boost mask it.
				{Field: "name", Value: "pseudogene", Factor: 0.5},
				{Field: "taxid", Value: 9606, Factor: 1.55},
				{Field: "taxid", Value: 10090, Factor: 1.3},
				{Field: "taxid", Value: 10116, Factor: 1.1},
			},
			DefaultFields: []string{"name", "symbol", "taxid", "entrezgene"},
		},
	}
}

// Load reads configuration from a YAML file, layered over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Engine.Index == "" {
		return fmt.Errorf("engine.index must not be empty")
	}
	if c.Engine.IndexTier1 == "" {
		return fmt.Errorf("engine.index_tier1 must not be empty")
	}
	if len(c.Species.Default) == 0 {
		return fmt.Errorf("species.default must not be empty")
	}
	for _, b := range c.Query.Boosts {
		if b.Factor <= 0 {
			return fmt.Errorf("query.boosts: factor must be > 0, got %v for field %q", b.Factor, b.Field)
		}
		if b.Field == "" {
			return fmt.Errorf("query.boosts: field must not be empty")
		}
	}
	for _, tr := range c.Query.Translations {
		if tr.From == "" {
			return fmt.Errorf("query.translations: from must not be empty")
		}
	}
	return nil
}

// Tier1Set returns the tier-1 taxonomy ids as a set.
// When species.tier1 is unset, every configured taxonomy id is tier-1.
func (c *Config) Tier1Set() map[int]bool {
	set := make(map[int]bool)
	if len(c.Species.Tier1) > 0 {
		for _, taxid := range c.Species.Tier1 {
			set[taxid] = true
		}
		return set
	}
	for _, taxid := range c.Species.Taxonomy {
		set[taxid] = true
	}
	return set
}
