package http

import (
	"net/http"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/service"
)

// TaskHandler exposes task, subtask, comment and assignee endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "columnId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.CreateTaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	task, err := h.tasks.CreateTask(columnID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd models.TaskUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	task, err := h.tasks.UpdateTask(id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Move accepts only the destination column and position, so unrelated task
// fields cannot be overwritten by a drag gesture.
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		ColumnID *int64 `json:"columnId"`
		Order    *int   `json:"order"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.ColumnID == nil {
		writeError(w, &service.ValidationError{Message: "columnId is required", Field: "columnId"})
		return
	}
	if in.Order == nil {
		writeError(w, &service.ValidationError{Message: "order is required", Field: "order"})
		return
	}
	task, err := h.tasks.MoveTask(id, *in.ColumnID, *in.Order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tasks.DeleteTask(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	subtasks, err := h.tasks.ListSubtasks(taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	subtask, err := h.tasks.CreateSubtask(taskID, in.Title, in.Order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subtask)
}

func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd models.SubtaskUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	subtask, err := h.tasks.UpdateSubtask(id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtask)
}

func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tasks.DeleteSubtask(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := h.tasks.ListComments(taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.tasks.CreateComment(taskID, principalID(r), in.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *TaskHandler) ListAssignees(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	assignees, err := h.tasks.ListAssignees(taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignees)
}

func (h *TaskHandler) AddAssignee(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.UserID == "" {
		writeError(w, &service.ValidationError{Message: "userId is required", Field: "userId"})
		return
	}
	assignees, err := h.tasks.AssignUser(taskID, in.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignees)
}
