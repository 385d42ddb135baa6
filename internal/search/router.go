package search

import (
	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/species"
)

// Router selects the physical index partition for a resolved species set.
// Routing affects execution only, never query content.
type Router struct {
	tier1      map[int]bool
	fullIndex  string
	tier1Index string
}

// NewRouter creates a router from the configured tier-1 species set.
func NewRouter(cfg *config.Config) *Router {
	return &Router{
		tier1:      cfg.Tier1Set(),
		fullIndex:  cfg.Engine.Index,
		tier1Index: cfg.Engine.IndexTier1,
	}
}

// Route returns the index partition to query. All-species requests and any
// resolved id outside the tier-1 set route to the full index; sets fully
// inside tier-1 route to the reduced partition.
func (r *Router) Route(resolved *species.Resolved) string {
	if resolved == nil || resolved.AllSpecies {
		return r.fullIndex
	}
	for _, taxid := range resolved.IDs {
		if !r.tier1[taxid] {
			return r.fullIndex
		}
	}
	return r.tier1Index
}
