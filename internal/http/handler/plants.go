package handler

import (
	"net/http"
	"strconv"

	"wefarm/internal/catalog"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PlantHandler struct {
	Lookup *catalog.Lookup
	Log    *zap.SugaredLogger
}

func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.Lookup.List(r.Context())
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondCounted(w, "Plants retrieved successfully", plants, len(plants))
}

func (h *PlantHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondBadRequest(w, "invalid plant id")
		return
	}

	p, err := h.Lookup.Get(r.Context(), id)
	if err != nil {
		respondErr(w, h.Log, err)
		return
	}
	respondOK(w, http.StatusOK, "Plant detail retrieved successfully", p)
}
