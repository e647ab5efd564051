package http

import (
	"net/http"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/service"
)

// ColumnHandler exposes column endpoints.
type ColumnHandler struct {
	board *service.BoardService
}

func NewColumnHandler(board *service.BoardService) *ColumnHandler {
	return &ColumnHandler{board: board}
}

func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	column, err := h.board.CreateColumn(projectID, in.Name, in.Order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, column)
}

func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd models.ColumnUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	column, err := h.board.UpdateColumn(id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, column)
}

func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.board.DeleteColumn(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
