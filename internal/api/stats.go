package api

import (
	"net/http"
	"strings"
	"time"

	"example.com/trainingstats/internal/auth"
	"example.com/trainingstats/internal/observability"
)

const defaultOverloadLimit = 5

func (h *Handler) statsReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeStatsRead)
	if !ok {
		return
	}

	report := strings.TrimPrefix(r.URL.Path, "/v1/stats/")
	started := time.Now()
	defer observability.ObserveReport(report, started)

	ctx := r.Context()
	tenantID, userID, unit := claims.TenantID, userFrom(r, claims), unitFrom(r)
	log := h.logger.WithField("tenant_id", tenantID).WithField("user_id", userID).WithField("report", report)

	var (
		payload any
		err     error
	)
	switch report {
	case "volume":
		stats, e := h.stats.VolumeStats(ctx, tenantID, userID)
		payload, err = toVolumeView(stats, unit), e
	case "overload":
		overload, e := h.stats.ProgressiveOverload(ctx, tenantID, userID)
		limit := parseLimit(r.URL.Query().Get("limit"), defaultOverloadLimit, 0)
		payload, err = OverloadResponse{Unit: unit, Items: toOverloadItems(overload.Top(limit), unit)}, e
	case "muscles":
		muscles, e := h.stats.MuscleHeatMap(ctx, tenantID, userID)
		payload, err = MusclesResponse{Groups: muscles.Ranking()}, e
	case "milestones":
		progress, e := h.stats.Milestones(ctx, tenantID, userID)
		payload, err = toMilestonesView(progress, unit), e
	case "summary":
		summary, e := h.stats.Summary(ctx, tenantID, userID)
		payload, err = toSummaryView(summary, unit), e
	case "dashboard":
		dashboard, e := h.stats.Dashboard(ctx, tenantID, userID)
		payload, err = DashboardResponse{
			GeneratedAt: dashboard.GeneratedAt,
			Unit:        unit,
			Volume:      toVolumeView(dashboard.Volume, unit),
			Overload:    toOverloadItems(dashboard.Overload.Top(defaultOverloadLimit), unit),
			Muscles:     dashboard.Muscles.Ranking(),
			Milestones:  toMilestonesView(dashboard.Milestones, unit),
			Summary:     toSummaryView(dashboard.Summary, unit),
		}, e
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown report "+report)
		return
	}
	if err != nil {
		log.WithError(err).Error("stats report failed")
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
