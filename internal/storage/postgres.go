package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DBInterface interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	QueryRowx(query string, args ...interface{}) *sqlx.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type PostgresStore struct {
	db DBInterface
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Begin() (storage.Store, error) {
	if db, ok := s.db.(*sqlx.DB); ok {
		tx, err := db.Beginx()
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: tx}, nil
	}
	return nil, fmt.Errorf("cannot begin transaction on unknown type")
}

func (s *PostgresStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return fmt.Errorf("cannot commit: not a transaction")
}

func (s *PostgresStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return fmt.Errorf("cannot rollback: not a transaction")
}

func (s *PostgresStore) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil // No-op for *sqlx.Tx
}

// SaveUser creates a new user row. The caller supplies the ID.
func (s *PostgresStore) SaveUser(u models.User) error {
	_, err := s.db.Exec(
		"INSERT INTO users (id, username, password, first_name, last_name, email) VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Username, u.Password, u.FirstName, u.LastName, u.Email)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(id string) (models.User, error) {
	var u models.User
	err := s.db.Get(&u, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *PostgresStore) GetUserByUsername(username string) (models.User, error) {
	var u models.User
	err := s.db.Get(&u, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *PostgresStore) SaveWorkspace(w models.Workspace) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		"INSERT INTO workspaces (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id",
		w.Name, w.Description, w.OwnerID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save workspace: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetWorkspace(id int64) (models.Workspace, error) {
	var w models.Workspace
	err := s.db.Get(&w, "SELECT * FROM workspaces WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Workspace{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Workspace{}, err
	}
	return w, nil
}

func (s *PostgresStore) ListWorkspaces(ownerID string) ([]models.Workspace, error) {
	workspaces := []models.Workspace{}
	err := s.db.Select(&workspaces, "SELECT * FROM workspaces WHERE owner_id = $1 ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (s *PostgresStore) SaveProject(p models.Project) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		"INSERT INTO projects (name, description, workspace_id) VALUES ($1, $2, $3) RETURNING id",
		p.Name, p.Description, p.WorkspaceID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save project: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetProject(id int64) (models.Project, error) {
	var p models.Project
	err := s.db.Get(&p, "SELECT * FROM projects WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(workspaceID int64) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.Select(&projects, "SELECT * FROM projects WHERE workspace_id = $1 ORDER BY id", workspaceID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// SaveColumn stores the caller-supplied order verbatim; siblings are never
// renumbered.
func (s *PostgresStore) SaveColumn(c models.Column) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		`INSERT INTO columns (name, project_id, "order") VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.ProjectID, c.Order).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save column: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetColumn(id int64) (models.Column, error) {
	var c models.Column
	err := s.db.Get(&c, "SELECT * FROM columns WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Column{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Column{}, err
	}
	return c, nil
}

// ListColumns returns the columns of a project sorted by order, ties broken
// by ascending id.
func (s *PostgresStore) ListColumns(projectID int64) ([]models.Column, error) {
	columns := []models.Column{}
	err := s.db.Select(&columns,
		`SELECT * FROM columns WHERE project_id = $1 ORDER BY "order" ASC, id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func (s *PostgresStore) UpdateColumn(id int64, upd models.ColumnUpdate) (models.Column, error) {
	sets := []string{}
	args := []interface{}{}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Order != nil {
		args = append(args, *upd.Order)
		sets = append(sets, fmt.Sprintf(`"order" = $%d`, len(args)))
	}
	if len(sets) == 0 {
		return s.GetColumn(id)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE columns SET %s WHERE id = $%d RETURNING *",
		strings.Join(sets, ", "), len(args))
	var c models.Column
	err := s.db.QueryRowx(query, args...).StructScan(&c)
	if err == sql.ErrNoRows {
		return models.Column{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Column{}, fmt.Errorf("update column %d: %w", id, err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteColumn(id int64) error {
	res, err := s.db.Exec("DELETE FROM columns WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkDeleted(res)
}

// SaveTask stores the caller-supplied order verbatim. Duplicate orders among
// siblings are legal; the read-time sort breaks ties by id.
func (s *PostgresStore) SaveTask(t models.Task) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		`INSERT INTO tasks (column_id, title, description, priority, due_date, "order")
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		t.ColumnID, t.Title, t.Description, t.Priority, t.DueDate, t.Order).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save task: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetTask(id int64) (models.Task, error) {
	var t models.Task
	err := s.db.Get(&t, "SELECT * FROM tasks WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListTasks returns the tasks of a column sorted by order, ties broken by
// ascending id.
func (s *PostgresStore) ListTasks(columnID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.Select(&tasks,
		`SELECT * FROM tasks WHERE column_id = $1 ORDER BY "order" ASC, id ASC`, columnID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies a partial update in a single statement. A move rewrites
// column_id and "order" together; no sibling rows are touched.
func (s *PostgresStore) UpdateTask(id int64, upd models.TaskUpdate) (models.Task, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.Priority != nil {
		args = append(args, *upd.Priority)
		sets = append(sets, fmt.Sprintf("priority = $%d", len(args)))
	}
	if upd.DueDate != nil {
		args = append(args, *upd.DueDate)
		sets = append(sets, fmt.Sprintf("due_date = $%d", len(args)))
	}
	if upd.ColumnID != nil {
		args = append(args, *upd.ColumnID)
		sets = append(sets, fmt.Sprintf("column_id = $%d", len(args)))
	}
	if upd.Order != nil {
		args = append(args, *upd.Order)
		sets = append(sets, fmt.Sprintf(`"order" = $%d`, len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d RETURNING *",
		strings.Join(sets, ", "), len(args))
	var t models.Task
	err := s.db.QueryRowx(query, args...).StructScan(&t)
	if err == sql.ErrNoRows {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

func (s *PostgresStore) DeleteTask(id int64) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkDeleted(res)
}

func (s *PostgresStore) SaveSubtask(st models.Subtask) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		`INSERT INTO subtasks (task_id, title, completed, "order") VALUES ($1, $2, $3, $4) RETURNING id`,
		st.TaskID, st.Title, st.Completed, st.Order).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save subtask: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListSubtasks(taskID int64) ([]models.Subtask, error) {
	subtasks := []models.Subtask{}
	err := s.db.Select(&subtasks,
		`SELECT * FROM subtasks WHERE task_id = $1 ORDER BY "order" ASC, id ASC`, taskID)
	if err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (s *PostgresStore) UpdateSubtask(id int64, upd models.SubtaskUpdate) (models.Subtask, error) {
	sets := []string{}
	args := []interface{}{}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Completed != nil {
		args = append(args, *upd.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	if upd.Order != nil {
		args = append(args, *upd.Order)
		sets = append(sets, fmt.Sprintf(`"order" = $%d`, len(args)))
	}
	if len(sets) == 0 {
		var st models.Subtask
		err := s.db.Get(&st, "SELECT * FROM subtasks WHERE id = $1", id)
		if err == sql.ErrNoRows {
			return models.Subtask{}, storage.ErrNotFound
		}
		return st, err
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE subtasks SET %s WHERE id = $%d RETURNING *",
		strings.Join(sets, ", "), len(args))
	var st models.Subtask
	err := s.db.QueryRowx(query, args...).StructScan(&st)
	if err == sql.ErrNoRows {
		return models.Subtask{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Subtask{}, fmt.Errorf("update subtask %d: %w", id, err)
	}
	return st, nil
}

func (s *PostgresStore) DeleteSubtask(id int64) error {
	res, err := s.db.Exec("DELETE FROM subtasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkDeleted(res)
}

// checkDeleted maps a zero-row DELETE to ErrNotFound.
func checkDeleted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SaveComment(c models.Comment) (int64, error) {
	var id int64
	err := s.db.QueryRowx(
		"INSERT INTO comments (task_id, user_id, content) VALUES ($1, $2, $3) RETURNING id",
		c.TaskID, c.UserID, c.Content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save comment: %w", err)
	}
	return id, nil
}

// ListComments returns the comments of a task joined with their authors,
// oldest first.
func (s *PostgresStore) ListComments(taskID int64) ([]models.CommentWithUser, error) {
	rows := []struct {
		models.Comment
		UserID2   string  `db:"author_id"`
		Username  string  `db:"author_username"`
		FirstName *string `db:"author_first_name"`
		LastName  *string `db:"author_last_name"`
		Email     *string `db:"author_email"`
	}{}
	err := s.db.Select(&rows, `
		SELECT c.id, c.task_id, c.user_id, c.content, c.created_at,
		       u.id AS author_id, u.username AS author_username,
		       u.first_name AS author_first_name, u.last_name AS author_last_name,
		       u.email AS author_email
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at ASC, c.id ASC`, taskID)
	if err != nil {
		return nil, err
	}
	comments := make([]models.CommentWithUser, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, models.CommentWithUser{
			Comment: row.Comment,
			User: models.User{
				ID:        row.UserID2,
				Username:  row.Username,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Email:     row.Email,
			},
		})
	}
	return comments, nil
}

func (s *PostgresStore) AddTaskAssignee(taskID int64, userID string) error {
	_, err := s.db.Exec(
		"INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)", taskID, userID)
	if err != nil {
		return fmt.Errorf("add task assignee: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTaskAssignees(taskID int64) ([]models.User, error) {
	users := []models.User{}
	err := s.db.Select(&users, `
		SELECT u.id, u.username, u.password, u.first_name, u.last_name, u.email, u.created_at
		FROM task_assignees ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.task_id = $1
		ORDER BY ta.id`, taskID)
	if err != nil {
		return nil, err
	}
	return users, nil
}
