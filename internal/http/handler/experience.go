package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wefarm/internal/experience"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExperienceHandler struct {
	Svc *experience.Service
	Log *zap.SugaredLogger
}

type publishExperienceReq struct {
	UserID     uint64 `json:"user_id"`
	PlantName  string `json:"plant_name"`
	StartDate  string `json:"start_date"` // RFC3339
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	Experience string `json:"experience"`
}

func (h *ExperienceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishExperienceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad json")
		return
	}
	req.PlantName = strings.TrimSpace(req.PlantName)
	req.Experience = strings.TrimSpace(req.Experience)
	if req.UserID == 0 || req.PlantName == "" || req.Experience == "" {
		respondBadRequest(w, "Missing required fields")
		return
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartDate))
	if err != nil {
		respondBadRequest(w, "invalid start_date (RFC3339)")
		return
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(req.EndDate))
	if err != nil {
		respondBadRequest(w, "invalid end_date (RFC3339)")
		return
	}

	outcome, err := experience.ParseOutcome(req.Status)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}

	id, err := h.Svc.Publish(r.Context(), experience.PublishInput{
		UserID:     req.UserID,
		PlantName:  req.PlantName,
		StartDate:  start,
		EndDate:    end,
		Status:     outcome,
		Experience: req.Experience,
	})
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusCreated, "Experience created successfully", map[string]any{"id": id})
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	var f experience.Filter

	if v := strings.TrimSpace(r.URL.Query().Get("user_id")); v != "" {
		uid, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondBadRequest(w, "invalid user_id")
			return
		}
		f.UserID = &uid
	}
	f.PlantName = strings.TrimSpace(r.URL.Query().Get("plant"))

	if csv := strings.TrimSpace(r.URL.Query().Get("status")); csv != "" {
		for _, part := range strings.Split(csv, ",") {
			o, err := experience.ParseOutcome(part)
			if err != nil {
				respondErr(w, h.Log, err)
				return
			}
			f.Outcomes = append(f.Outcomes, o)
		}
	}

	entries, err := h.Svc.List(r.Context(), f)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Experiences retrieved successfully", entries)
}

type updateExperienceReq struct {
	PlantName  *string `json:"plant_name"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     *string `json:"status"`
	Experience *string `json:"experience"`
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondBadRequest(w, "invalid experience id")
		return
	}

	var req updateExperienceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad json")
		return
	}

	patch := experience.Patch{
		PlantName:  req.PlantName,
		Experience: req.Experience,
	}
	if req.StartDate != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.StartDate))
		if err != nil {
			respondBadRequest(w, "invalid start_date (RFC3339)")
			return
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.EndDate))
		if err != nil {
			respondBadRequest(w, "invalid end_date (RFC3339)")
			return
		}
		patch.EndDate = &t
	}
	if req.Status != nil {
		o, err := experience.ParseOutcome(*req.Status)
		if err != nil {
			respondErr(w, h.Log, err)
			return
		}
		patch.Status = &o
	}

	if err := h.Svc.Update(r.Context(), id, patch); err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Experience updated successfully", nil)
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondBadRequest(w, "invalid experience id")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Experience deleted successfully", nil)
}
