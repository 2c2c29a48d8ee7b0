package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wefarm/internal/history"
	"wefarm/internal/tracking"

	"go.uber.org/zap"
)

type HistoryHandler struct {
	Reconciler *history.Reconciler
	Log        *zap.SugaredLogger
}

type syncHistoryReq struct {
	UserPlantID uint64  `json:"user_plant_id"`
	UserID      uint64  `json:"user_id"`
	PlantName   string  `json:"plant_name"`
	StartDate   string  `json:"start_date"` // RFC3339
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes"`
}

func (h *HistoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncHistoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad json")
		return
	}
	if req.UserPlantID == 0 || req.UserID == 0 || strings.TrimSpace(req.PlantName) == "" {
		respondBadRequest(w, "Required fields missing")
		return
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartDate))
	if err != nil {
		respondBadRequest(w, "invalid start_date (RFC3339)")
		return
	}

	var end *time.Time
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.EndDate))
		if err != nil {
			respondBadRequest(w, "invalid end_date (RFC3339)")
			return
		}
		end = &t
	}

	status, err := tracking.ParseStatus(req.Status)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	created, err := h.Reconciler.Sync(r.Context(), history.SyncInput{
		UserPlantID: req.UserPlantID,
		UserID:      req.UserID,
		PlantName:   strings.TrimSpace(req.PlantName),
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Notes:       notes,
	})
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}

	if created {
		respondOK(w, http.StatusCreated, "History record created successfully", nil)
		return
	}
	respondOK(w, http.StatusOK, "History record updated successfully", nil)
}

func (h *HistoryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var userID *uint64
	if v := strings.TrimSpace(r.URL.Query().Get("user_id")); v != "" {
		uid, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondBadRequest(w, "invalid user_id")
			return
		}
		userID = &uid
	}

	entries, err := h.Reconciler.Query(r.Context(), userID)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "History retrieved successfully", entries)
}
