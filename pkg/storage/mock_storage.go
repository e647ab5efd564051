package storage

import (
	"sort"
	"time"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/pkg/errors"
)

// mockStore implements Store with in-memory slices. Begin returns the same
// instance and Commit/Rollback are no-ops, so service-level tests exercise
// the transaction pattern without a database.
type mockStore struct {
	users      []models.User
	workspaces []models.Workspace
	projects   []models.Project
	columns    []models.Column
	tasks      []models.Task
	subtasks   []models.Subtask
	comments   []models.Comment
	assignees  map[int64][]string
	nextID     int64
}

// NewMockStore returns an empty in-memory Store.
func NewMockStore() Store {
	return &mockStore{assignees: make(map[int64][]string)}
}

func (m *mockStore) Begin() (Store, error) { return m, nil }
func (m *mockStore) Commit() error         { return nil }
func (m *mockStore) Rollback() error       { return nil }
func (m *mockStore) Close() error          { return nil }

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) SaveUser(u models.User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return errors.New("username already taken")
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users = append(m.users, u)
	return nil
}

func (m *mockStore) GetUser(id string) (models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *mockStore) GetUserByUsername(username string) (models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *mockStore) SaveWorkspace(w models.Workspace) (int64, error) {
	w.ID = m.id()
	w.CreatedAt = time.Now()
	m.workspaces = append(m.workspaces, w)
	return w.ID, nil
}

func (m *mockStore) GetWorkspace(id int64) (models.Workspace, error) {
	for _, w := range m.workspaces {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workspace{}, ErrNotFound
}

func (m *mockStore) ListWorkspaces(ownerID string) ([]models.Workspace, error) {
	out := []models.Workspace{}
	for _, w := range m.workspaces {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockStore) SaveProject(p models.Project) (int64, error) {
	if _, err := m.GetWorkspace(p.WorkspaceID); err != nil {
		return 0, errors.New("workspace does not exist")
	}
	p.ID = m.id()
	p.CreatedAt = time.Now()
	m.projects = append(m.projects, p)
	return p.ID, nil
}

func (m *mockStore) GetProject(id int64) (models.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, ErrNotFound
}

func (m *mockStore) ListProjects(workspaceID int64) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range m.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) SaveColumn(c models.Column) (int64, error) {
	if _, err := m.GetProject(c.ProjectID); err != nil {
		return 0, errors.New("project does not exist")
	}
	c.ID = m.id()
	c.CreatedAt = time.Now()
	m.columns = append(m.columns, c)
	return c.ID, nil
}

func (m *mockStore) GetColumn(id int64) (models.Column, error) {
	for _, c := range m.columns {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Column{}, ErrNotFound
}

func (m *mockStore) ListColumns(projectID int64) ([]models.Column, error) {
	out := []models.Column{}
	for _, c := range m.columns {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) UpdateColumn(id int64, upd models.ColumnUpdate) (models.Column, error) {
	for i, c := range m.columns {
		if c.ID == id {
			if upd.Name != nil {
				m.columns[i].Name = *upd.Name
			}
			if upd.Order != nil {
				m.columns[i].Order = *upd.Order
			}
			return m.columns[i], nil
		}
	}
	return models.Column{}, ErrNotFound
}

func (m *mockStore) DeleteColumn(id int64) error {
	for i, c := range m.columns {
		if c.ID == id {
			m.columns = append(m.columns[:i], m.columns[i+1:]...)
			// cascade, mirroring the schema's ON DELETE CASCADE
			kept := m.tasks[:0]
			for _, t := range m.tasks {
				if t.ColumnID != id {
					kept = append(kept, t)
				}
			}
			m.tasks = kept
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveTask(t models.Task) (int64, error) {
	if _, err := m.GetColumn(t.ColumnID); err != nil {
		return 0, errors.New("column does not exist")
	}
	t.ID = m.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.tasks = append(m.tasks, t)
	return t.ID, nil
}

func (m *mockStore) GetTask(id int64) (models.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *mockStore) ListTasks(columnID int64) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range m.tasks {
		if t.ColumnID == columnID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) UpdateTask(id int64, upd models.TaskUpdate) (models.Task, error) {
	for i, t := range m.tasks {
		if t.ID == id {
			if upd.ColumnID != nil {
				if _, err := m.GetColumn(*upd.ColumnID); err != nil {
					return models.Task{}, errors.New("column does not exist")
				}
				m.tasks[i].ColumnID = *upd.ColumnID
			}
			if upd.Title != nil {
				m.tasks[i].Title = *upd.Title
			}
			if upd.Description != nil {
				m.tasks[i].Description = upd.Description
			}
			if upd.Priority != nil {
				m.tasks[i].Priority = *upd.Priority
			}
			if upd.DueDate != nil {
				m.tasks[i].DueDate = upd.DueDate
			}
			if upd.Order != nil {
				m.tasks[i].Order = *upd.Order
			}
			m.tasks[i].UpdatedAt = time.Now()
			return m.tasks[i], nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *mockStore) DeleteTask(id int64) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			kept := m.subtasks[:0]
			for _, st := range m.subtasks {
				if st.TaskID != id {
					kept = append(kept, st)
				}
			}
			m.subtasks = kept
			keptComments := m.comments[:0]
			for _, c := range m.comments {
				if c.TaskID != id {
					keptComments = append(keptComments, c)
				}
			}
			m.comments = keptComments
			delete(m.assignees, id)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveSubtask(st models.Subtask) (int64, error) {
	if _, err := m.GetTask(st.TaskID); err != nil {
		return 0, errors.New("task does not exist")
	}
	st.ID = m.id()
	m.subtasks = append(m.subtasks, st)
	return st.ID, nil
}

func (m *mockStore) ListSubtasks(taskID int64) ([]models.Subtask, error) {
	out := []models.Subtask{}
	for _, st := range m.subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) UpdateSubtask(id int64, upd models.SubtaskUpdate) (models.Subtask, error) {
	for i, st := range m.subtasks {
		if st.ID == id {
			if upd.Title != nil {
				m.subtasks[i].Title = *upd.Title
			}
			if upd.Completed != nil {
				m.subtasks[i].Completed = *upd.Completed
			}
			if upd.Order != nil {
				m.subtasks[i].Order = *upd.Order
			}
			return m.subtasks[i], nil
		}
	}
	return models.Subtask{}, ErrNotFound
}

func (m *mockStore) DeleteSubtask(id int64) error {
	for i, st := range m.subtasks {
		if st.ID == id {
			m.subtasks = append(m.subtasks[:i], m.subtasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveComment(c models.Comment) (int64, error) {
	if _, err := m.GetTask(c.TaskID); err != nil {
		return 0, errors.New("task does not exist")
	}
	if _, err := m.GetUser(c.UserID); err != nil {
		return 0, errors.New("user does not exist")
	}
	c.ID = m.id()
	c.CreatedAt = time.Now()
	m.comments = append(m.comments, c)
	return c.ID, nil
}

func (m *mockStore) ListComments(taskID int64) ([]models.CommentWithUser, error) {
	out := []models.CommentWithUser{}
	for _, c := range m.comments {
		if c.TaskID != taskID {
			continue
		}
		user, err := m.GetUser(c.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CommentWithUser{Comment: c, User: user})
	}
	return out, nil
}

func (m *mockStore) AddTaskAssignee(taskID int64, userID string) error {
	if _, err := m.GetTask(taskID); err != nil {
		return errors.New("task does not exist")
	}
	if _, err := m.GetUser(userID); err != nil {
		return errors.New("user does not exist")
	}
	for _, existing := range m.assignees[taskID] {
		if existing == userID {
			return errors.New("user already assigned")
		}
	}
	m.assignees[taskID] = append(m.assignees[taskID], userID)
	return nil
}

func (m *mockStore) ListTaskAssignees(taskID int64) ([]models.User, error) {
	out := []models.User{}
	for _, userID := range m.assignees[taskID] {
		u, err := m.GetUser(userID)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
