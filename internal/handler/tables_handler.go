package handlers

import (
	"net/http"
)

type TablesResponse struct {
	CountTables int            `json:"countTables"`
	Rows        map[string]int `json:"rows"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesDB()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rows, err := h.TablesService.GetRowCounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, TablesResponse{CountTables: count, Rows: rows}, http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}
