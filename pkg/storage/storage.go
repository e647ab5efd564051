package storage

import (
	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the storage operations for boardflow. Begin returns a
// transactional Store; all writes inside a transaction are atomic on Commit.
type Store interface {
	Begin() (Store, error)
	Commit() error
	Rollback() error
	Close() error

	// User operations
	SaveUser(u models.User) error
	GetUser(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)

	// Workspace operations
	SaveWorkspace(w models.Workspace) (int64, error)
	GetWorkspace(id int64) (models.Workspace, error)
	ListWorkspaces(ownerID string) ([]models.Workspace, error)

	// Project operations
	SaveProject(p models.Project) (int64, error)
	GetProject(id int64) (models.Project, error)
	ListProjects(workspaceID int64) ([]models.Project, error)

	// Column operations
	SaveColumn(c models.Column) (int64, error)
	GetColumn(id int64) (models.Column, error)
	ListColumns(projectID int64) ([]models.Column, error)
	UpdateColumn(id int64, upd models.ColumnUpdate) (models.Column, error)
	DeleteColumn(id int64) error

	// Task operations
	SaveTask(t models.Task) (int64, error)
	GetTask(id int64) (models.Task, error)
	ListTasks(columnID int64) ([]models.Task, error)
	UpdateTask(id int64, upd models.TaskUpdate) (models.Task, error)
	DeleteTask(id int64) error

	// Subtask operations
	SaveSubtask(st models.Subtask) (int64, error)
	ListSubtasks(taskID int64) ([]models.Subtask, error)
	UpdateSubtask(id int64, upd models.SubtaskUpdate) (models.Subtask, error)
	DeleteSubtask(id int64) error

	// Comment operations
	SaveComment(c models.Comment) (int64, error)
	ListComments(taskID int64) ([]models.CommentWithUser, error)

	// Assignee operations
	AddTaskAssignee(taskID int64, userID string) error
	ListTaskAssignees(taskID int64) ([]models.User, error)
}
