// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/aidhub/internal/logging"
	"github.com/tomtom215/aidhub/internal/models"
)

// trendingLimit is the number of categories listed by /api/trending.
const trendingLimit = 3

// History handles GET /api/history. Store failures degrade to empty lists
// with an error string and status 200.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp := models.HistoryResponse{
		Transactions: []models.HistoryTransaction{},
		TypeStats:    []models.HistoryTypeStat{},
	}

	records, err := h.store.ListFulfilled(ctx)
	if err == nil {
		var stats []models.CategoryStats
		stats, err = h.store.FulfilledStatsByCategory(ctx)
		if err == nil {
			for i := range records {
				resp.Transactions = append(resp.Transactions, historyTransaction(&records[i]))
			}
			for _, s := range stats {
				resp.TypeStats = append(resp.TypeStats, models.HistoryTypeStat{
					DonationType: s.Category.Display(),
					Count:        s.Count,
					AvgUrgency:   s.AvgUrgency,
				})
			}
		}
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load history")
		resp.Error = "Error loading history"
	}

	respondJSON(w, http.StatusOK, &resp)
}

func historyTransaction(f *models.FulfilledRecord) models.HistoryTransaction {
	return models.HistoryTransaction{
		RecipientName:    f.Name,
		Location:         f.Location,
		DonationType:     f.Category,
		DonorName:        f.DonorName,
		RecipientContact: f.RecipientContact,
		DonorContact:     f.DonorContact,
		PickupLocation:   f.PickupLocation,
		Date:             f.TransactionDate,
	}
}

// SummaryStats handles GET /api/summary_stats. Store failures return zeros.
func (h *Handler) SummaryStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	stats, err := h.store.SummaryStats(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load summary stats")
		stats = models.SummaryStats{}
	}
	respondJSON(w, http.StatusOK, &stats)
}

// Trending handles GET /api/trending: the most requested open categories,
// each with tomorrow's forecast when a trend model covers it.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	counts, err := h.store.TopOpenCategories(ctx, trendingLimit)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load trends")
		respondJSON(w, http.StatusOK, &models.TrendingResponse{
			Message: "Error getting trends",
			Trends:  []models.Trend{},
		})
		return
	}

	tomorrow := h.now().UTC().AddDate(0, 0, 1)
	trends := make([]models.Trend, 0, len(counts))
	for _, c := range counts {
		display := c.Category.Display()
		t := models.Trend{
			Type:    display,
			Count:   c.Count,
			Message: fmt.Sprintf("%s (requested %d times)", display, c.Count),
		}
		if h.forecaster != nil {
			if f, ok := h.forecaster.ForecastTrend(c.Category, tomorrow); ok {
				t.Forecast = &f
			}
		}
		trends = append(trends, t)
	}

	respondJSON(w, http.StatusOK, &models.TrendingResponse{
		Message: "Current Donation Needs",
		Trends:  trends,
	})
}
