package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wefarm/internal/tracking"

	"go.uber.org/zap"
)

type TrackingHandler struct {
	Registry *tracking.Registry
	Log      *zap.SugaredLogger
}

type createTrackingReq struct {
	UserID  uint64 `json:"user_id"`
	PlantID uint64 `json:"plant_id"`
	Name    string `json:"name"`
}

func (h *TrackingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTrackingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.PlantID == 0 || req.Name == "" {
		respondBadRequest(w, "Missing required fields")
		return
	}

	detail, err := h.Registry.Create(r.Context(), req.UserID, req.PlantID, req.Name)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusCreated, "Plant tracking started successfully", detail)
}

func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	uidStr := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if uidStr == "" {
		respondBadRequest(w, "user_id required")
		return
	}
	uid, err := strconv.ParseUint(uidStr, 10, 64)
	if err != nil {
		respondBadRequest(w, "invalid user_id")
		return
	}

	statuses, err := tracking.ParseStatusSet(r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}

	rows, err := h.Registry.List(r.Context(), uid, statuses)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Tracking instances retrieved successfully", rows)
}

type updateTrackingReq struct {
	TrackerID        uint64    `json:"tracker_id"`
	Progress         *float64  `json:"progress"`
	Status           *string   `json:"status"`
	EndDate          *string   `json:"end_date"` // RFC3339
	Notes            *string   `json:"notes"`
	CompletedTargets *[]string `json:"completed_targets"`
	TargetProblems   *[]string `json:"target_problems"`
}

func (h *TrackingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTrackingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad json")
		return
	}
	if req.TrackerID == 0 {
		respondBadRequest(w, "tracker_id required")
		return
	}

	patch := tracking.Patch{
		Progress:         req.Progress,
		Notes:            req.Notes,
		CompletedTargets: req.CompletedTargets,
		TargetProblems:   req.TargetProblems,
	}

	if req.Status != nil {
		s, err := tracking.ParseStatus(*req.Status)
		if err != nil {
			respondErr(w, h.Log, err)
			return
		}
		patch.Status = &s
	}
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		t, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			respondBadRequest(w, "invalid end_date (RFC3339)")
			return
		}
		patch.EndDate = &t
	}

	if err := h.Registry.Update(r.Context(), req.TrackerID, patch); err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Plant updated successfully", nil)
}
