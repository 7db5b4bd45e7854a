package api

import (
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/pipeline"
)

// ItemListResponse wraps the current digest's item list.
type ItemListResponse struct {
	Items []models.Item `json:"items" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// ArchiveListResponse wraps archived entries.
type ArchiveListResponse struct {
	Entries []models.ArchiveEntry `json:"entries" validate:"required"`
	Total   int                   `json:"total" example:"300" validate:"required"`
}

// ArchiveSearchResponse wraps archive search results.
type ArchiveSearchResponse struct {
	Results []models.ArchiveEntry `json:"results" validate:"required"`
}

// WatchlistResponse wraps the watchlist aggregation.
type WatchlistResponse struct {
	Watchlist []pipeline.WatchlistEntry `json:"watchlist" validate:"required"`
}
