package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/apperr"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/feed"
)

// Handler holds API route handlers.
type Handler struct {
	svc *feed.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *feed.Service) *Handler {
	return &Handler{svc: svc}
}

// GetDigest handles GET /api/digest.
//
//	@Summary		Get the current daily digest summary
//	@Tags			digest
//	@Produce		json
//	@Success		200	{object}	pipeline.Summary
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/digest [get]
func (h *Handler) GetDigest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Digest(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			writeJSON(w, http.StatusNotFound, errorBody("no digest published yet"))
		} else {
			slog.Error("get digest failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListItems handles GET /api/items.
//
//	@Summary		List the current digest's scored items in selection order
//	@Tags			digest
//	@Produce		json
//	@Success		200	{object}	ItemListResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Items(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			writeJSON(w, http.StatusNotFound, errorBody("no digest published yet"))
		} else {
			slog.Error("list items failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// ListArchive handles GET /api/archive.
//
//	@Summary		List archived high-priority entries
//	@Tags			archive
//	@Produce		json
//	@Param			min_score	query		int		false	"Minimum priority score"
//	@Param			source		query		string	false	"Filter by source"
//	@Param			signal_type	query		string	false	"Filter by signal type"
//	@Param			hsi			query		bool	false	"High-structural-impact entries only"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	ArchiveListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/archive [get]
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	entries, err := h.svc.Archive(r.Context(), f)
	if err != nil {
		slog.Error("list archive failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	total, err := h.svc.ArchiveCount(r.Context())
	if err != nil {
		slog.Error("archive count failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

// filterFromQuery builds an archive filter from query parameters,
// rejecting malformed numeric or boolean values.
func filterFromQuery(q url.Values) (archive.Filter, error) {
	var f archive.Filter
	f.Source = q.Get("source")
	f.SignalType = q.Get("signal_type")

	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: min_score %q", apperr.ErrBadFilter, v)
		}
		f.MinScore = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: limit %q", apperr.ErrBadFilter, v)
		}
		f.Limit = n
	}
	if v := q.Get("hsi"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("%w: hsi %q", apperr.ErrBadFilter, v)
		}
		f.HSIOnly = b
	}
	return f, nil
}

// SearchArchive handles GET /api/archive/search.
//
//	@Summary		Full-text search across archived entries
//	@Tags			archive
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	ArchiveSearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/archive/search [get]
func (h *Handler) SearchArchive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchArchive(r.Context(), q, limit)
	if err != nil {
		slog.Error("archive search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// GetWatchlist handles GET /api/watchlist.
//
//	@Summary		Get the current digest's watchlist aggregation
//	@Tags			digest
//	@Produce		json
//	@Success		200	{object}	WatchlistResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/watchlist [get]
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Watchlist(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			writeJSON(w, http.StatusNotFound, errorBody("no digest published yet"))
		} else {
			slog.Error("get watchlist failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"watchlist": rows,
	})
}
