package service

import (
	"strings"
	"time"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/storage"
)

// TaskService manages tasks and their subordinate entities. The ordering
// contract: order values are stored exactly as supplied, duplicates and gaps
// included, and every sibling listing sorts by order then id. A move rewrites
// only the moved row; concurrent moves into the same slot produce a tie that
// the read-time sort resolves.
type TaskService struct {
	store  storage.Store
	logger Logger
}

func NewTaskService(store storage.Store, logger Logger) *TaskService {
	return &TaskService{store: store, logger: logger}
}

// CreateTaskInput is the request body of POST /api/columns/{columnId}/tasks.
// Order is the append position supplied by the client, typically the current
// sibling count.
type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Priority    models.TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	Order       int                 `json:"order"`
}

func (s *TaskService) CreateTask(columnID int64, in CreateTaskInput) (task models.Task, err error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, invalid("task title cannot be empty", "title")
	}
	if in.Priority == "" {
		in.Priority = models.MediumPriority
	}
	if !in.Priority.Valid() {
		return models.Task{}, invalid("priority must be one of 'low', 'medium', 'high'", "priority")
	}

	txStore, err := s.store.Begin()
	if err != nil {
		return models.Task{}, err
	}
	defer finish(txStore, s.logger, &err)

	id, err := txStore.SaveTask(models.Task{
		ColumnID:    columnID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Order:       in.Order,
	})
	if err != nil {
		return models.Task{}, err
	}
	task, err = txStore.GetTask(id)
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Infof("Created task '%s' with ID %d in column %d", in.Title, id, columnID)
	return task, nil
}

func (s *TaskService) GetTask(id int64) (models.Task, error) {
	return s.store.GetTask(id)
}

func (s *TaskService) UpdateTask(id int64, upd models.TaskUpdate) (models.Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return models.Task{}, invalid("task title cannot be empty", "title")
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return models.Task{}, invalid("priority must be one of 'low', 'medium', 'high'", "priority")
	}
	return s.store.UpdateTask(id, upd)
}

// MoveTask reassigns a task to a column at a position. The destination column
// is checked first so a missing parent surfaces as not-found instead of a raw
// foreign-key failure; the update itself is a single atomic statement and the
// task's siblings keep their order values untouched.
func (s *TaskService) MoveTask(id, columnID int64, order int) (task models.Task, err error) {
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Task{}, err
	}
	defer finish(txStore, s.logger, &err)

	if _, err = txStore.GetColumn(columnID); err != nil {
		return models.Task{}, err
	}
	task, err = txStore.UpdateTask(id, models.TaskUpdate{ColumnID: &columnID, Order: &order})
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Infof("Moved task %d to column %d at position %d", id, columnID, order)
	return task, nil
}

// DeleteTask removes a task along with its subtasks, comments and assignee
// rows (schema-level cascade).
func (s *TaskService) DeleteTask(id int64) error {
	if err := s.store.DeleteTask(id); err != nil {
		return err
	}
	s.logger.Infof("Deleted task %d", id)
	return nil
}

func (s *TaskService) ListSubtasks(taskID int64) ([]models.Subtask, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.store.ListSubtasks(taskID)
}

func (s *TaskService) CreateSubtask(taskID int64, title string, order int) (st models.Subtask, err error) {
	if strings.TrimSpace(title) == "" {
		return models.Subtask{}, invalid("subtask title cannot be empty", "title")
	}
	if _, err = s.store.GetTask(taskID); err != nil {
		return models.Subtask{}, err
	}
	id, err := s.store.SaveSubtask(models.Subtask{TaskID: taskID, Title: title, Order: order})
	if err != nil {
		return models.Subtask{}, err
	}
	subtasks, err := s.store.ListSubtasks(taskID)
	if err != nil {
		return models.Subtask{}, err
	}
	for _, candidate := range subtasks {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return models.Subtask{}, storage.ErrNotFound
}

func (s *TaskService) UpdateSubtask(id int64, upd models.SubtaskUpdate) (models.Subtask, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return models.Subtask{}, invalid("subtask title cannot be empty", "title")
	}
	return s.store.UpdateSubtask(id, upd)
}

func (s *TaskService) DeleteSubtask(id int64) error {
	return s.store.DeleteSubtask(id)
}

func (s *TaskService) ListComments(taskID int64) ([]models.CommentWithUser, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.store.ListComments(taskID)
}

// CreateComment appends a comment by the calling principal. Comments are
// append-only; there is no update or delete.
func (s *TaskService) CreateComment(taskID int64, userID, content string) (comment models.CommentWithUser, err error) {
	if strings.TrimSpace(content) == "" {
		return models.CommentWithUser{}, invalid("comment content cannot be empty", "content")
	}
	if _, err = s.store.GetTask(taskID); err != nil {
		return models.CommentWithUser{}, err
	}
	id, err := s.store.SaveComment(models.Comment{TaskID: taskID, UserID: userID, Content: content})
	if err != nil {
		return models.CommentWithUser{}, err
	}
	comments, err := s.store.ListComments(taskID)
	if err != nil {
		return models.CommentWithUser{}, err
	}
	for _, candidate := range comments {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return models.CommentWithUser{}, storage.ErrNotFound
}

func (s *TaskService) ListAssignees(taskID int64) ([]models.User, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.store.ListTaskAssignees(taskID)
}

func (s *TaskService) AssignUser(taskID int64, userID string) ([]models.User, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, err
	}
	if err := s.store.AddTaskAssignee(taskID, userID); err != nil {
		return nil, err
	}
	return s.store.ListTaskAssignees(taskID)
}
