package http

import (
	"net/http"
	"strconv"

	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/gorilla/mux"
)

// WorkspaceHandler exposes workspace and project endpoints.
type WorkspaceHandler struct {
	board *service.BoardService
}

func NewWorkspaceHandler(board *service.BoardService) *WorkspaceHandler {
	return &WorkspaceHandler{board: board}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, &service.ValidationError{Message: "invalid " + name, Field: name}
	}
	return id, nil
}

func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.board.ListWorkspaces(principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workspaces)
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string  `json:"name"`
		Description *string `json:"description,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	workspace, err := h.board.CreateWorkspace(principalID(r), in.Name, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workspace)
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	workspace, err := h.board.GetWorkspace(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workspace)
}

func (h *WorkspaceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := pathID(r, "workspaceId")
	if err != nil {
		writeError(w, err)
		return
	}
	projects, err := h.board.ListProjects(workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *WorkspaceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := pathID(r, "workspaceId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Name        string  `json:"name"`
		Description *string `json:"description,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	project, err := h.board.CreateProject(workspaceID, in.Name, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GetProject returns the project hydrated with its columns and tasks for the
// Kanban view.
func (h *WorkspaceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	board, err := h.board.GetBoard(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
