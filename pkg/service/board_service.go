package service

import (
	"strings"

	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/storage"
)

// Logger defines the logging interface for the services
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// BoardService manages workspaces, projects and columns on behalf of an
// authenticated principal. Every call that lists or creates workspace data
// takes the principal's user id explicitly; there is no ambient auth state.
type BoardService struct {
	store  storage.Store
	logger Logger
}

func NewBoardService(store storage.Store, logger Logger) *BoardService {
	return &BoardService{store: store, logger: logger}
}

// finish commits the transaction when *err is nil, otherwise rolls back.
// Meant to be deferred; err must be a named return of the caller.
func finish(txStore storage.Store, logger Logger, err *error) {
	if *err != nil {
		if rollbackErr := txStore.Rollback(); rollbackErr != nil {
			logger.Errorf("Failed to rollback after error: %v (original error: %v)", rollbackErr, *err)
		}
		return
	}
	if commitErr := txStore.Commit(); commitErr != nil {
		logger.Errorf("Failed to commit: %v", commitErr)
		*err = commitErr
	}
}

// ListWorkspaces returns the workspaces owned by the principal. A principal
// with zero workspaces gets a starter set seeded first: one workspace, one
// project, three columns and two example tasks. Seeding happens at most once
// because any later listing finds a non-empty set.
func (s *BoardService) ListWorkspaces(ownerID string) (workspaces []models.Workspace, err error) {
	workspaces, err = s.store.ListWorkspaces(ownerID)
	if err != nil {
		return nil, err
	}
	if len(workspaces) > 0 {
		return workspaces, nil
	}

	txStore, err := s.store.Begin()
	if err != nil {
		return nil, err
	}
	defer finish(txStore, s.logger, &err)

	seeded, err := seedStarterBoard(txStore, ownerID)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Seeded starter workspace %d for user %s", seeded.ID, ownerID)
	return []models.Workspace{seeded}, nil
}

func seedStarterBoard(txStore storage.Store, ownerID string) (models.Workspace, error) {
	wsDescription := "Your first workspace"
	wsID, err := txStore.SaveWorkspace(models.Workspace{
		Name:        "My Workspace",
		Description: &wsDescription,
		OwnerID:     ownerID,
	})
	if err != nil {
		return models.Workspace{}, err
	}

	projDescription := "Get started with your first project"
	projID, err := txStore.SaveProject(models.Project{
		Name:        "My Project",
		Description: &projDescription,
		WorkspaceID: wsID,
	})
	if err != nil {
		return models.Workspace{}, err
	}

	var firstColumnID int64
	for i, name := range []string{"To Do", "In Progress", "Done"} {
		colID, err := txStore.SaveColumn(models.Column{
			Name:      name,
			ProjectID: projID,
			Order:     i,
		})
		if err != nil {
			return models.Workspace{}, err
		}
		if i == 0 {
			firstColumnID = colID
		}
	}

	welcomeDesc := "Try dragging this task to another column."
	if _, err := txStore.SaveTask(models.Task{
		ColumnID:    firstColumnID,
		Title:       "Welcome to your new project!",
		Description: &welcomeDesc,
		Priority:    models.HighPriority,
		Order:       0,
	}); err != nil {
		return models.Workspace{}, err
	}
	exploreDesc := "Click on a task to see details."
	if _, err := txStore.SaveTask(models.Task{
		ColumnID:    firstColumnID,
		Title:       "Explore the features",
		Description: &exploreDesc,
		Priority:    models.MediumPriority,
		Order:       1,
	}); err != nil {
		return models.Workspace{}, err
	}

	return txStore.GetWorkspace(wsID)
}

func (s *BoardService) CreateWorkspace(ownerID, name string, description *string) (ws models.Workspace, err error) {
	if strings.TrimSpace(name) == "" {
		return models.Workspace{}, invalid("workspace name cannot be empty", "name")
	}
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Workspace{}, err
	}
	defer finish(txStore, s.logger, &err)

	id, err := txStore.SaveWorkspace(models.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	})
	if err != nil {
		return models.Workspace{}, err
	}
	ws, err = txStore.GetWorkspace(id)
	if err != nil {
		return models.Workspace{}, err
	}
	s.logger.Infof("Created workspace '%s' with ID %d", name, id)
	return ws, nil
}

// GetWorkspace fetches a single workspace by id.
// TODO: single-entity reads do not verify that the caller owns the workspace;
// only the listing endpoint filters by owner.
func (s *BoardService) GetWorkspace(id int64) (models.Workspace, error) {
	return s.store.GetWorkspace(id)
}

func (s *BoardService) ListProjects(workspaceID int64) ([]models.Project, error) {
	return s.store.ListProjects(workspaceID)
}

func (s *BoardService) CreateProject(workspaceID int64, name string, description *string) (proj models.Project, err error) {
	if strings.TrimSpace(name) == "" {
		return models.Project{}, invalid("project name cannot be empty", "name")
	}
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Project{}, err
	}
	defer finish(txStore, s.logger, &err)

	id, err := txStore.SaveProject(models.Project{
		Name:        name,
		Description: description,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return models.Project{}, err
	}
	proj, err = txStore.GetProject(id)
	if err != nil {
		return models.Project{}, err
	}
	s.logger.Infof("Created project '%s' with ID %d in workspace %d", name, id, workspaceID)
	return proj, nil
}

// GetBoard returns a project hydrated with its columns and each column's
// tasks, everything sorted by order with id as the tie-break. One query for
// the project, one for the columns, one per column for its tasks.
func (s *BoardService) GetBoard(projectID int64) (models.Board, error) {
	project, err := s.store.GetProject(projectID)
	if err != nil {
		return models.Board{}, err
	}
	columns, err := s.store.ListColumns(projectID)
	if err != nil {
		return models.Board{}, err
	}
	board := models.Board{Project: project, Columns: make([]models.BoardColumn, 0, len(columns))}
	for _, col := range columns {
		tasks, err := s.store.ListTasks(col.ID)
		if err != nil {
			return models.Board{}, err
		}
		board.Columns = append(board.Columns, models.BoardColumn{Column: col, Tasks: tasks})
	}
	return board, nil
}

func (s *BoardService) CreateColumn(projectID int64, name string, order int) (col models.Column, err error) {
	if strings.TrimSpace(name) == "" {
		return models.Column{}, invalid("column name cannot be empty", "name")
	}
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Column{}, err
	}
	defer finish(txStore, s.logger, &err)

	id, err := txStore.SaveColumn(models.Column{
		Name:      name,
		ProjectID: projectID,
		Order:     order,
	})
	if err != nil {
		return models.Column{}, err
	}
	col, err = txStore.GetColumn(id)
	if err != nil {
		return models.Column{}, err
	}
	return col, nil
}

func (s *BoardService) UpdateColumn(id int64, upd models.ColumnUpdate) (models.Column, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return models.Column{}, invalid("column name cannot be empty", "name")
	}
	return s.store.UpdateColumn(id, upd)
}

// DeleteColumn removes a column; its tasks go with it (schema-level cascade).
func (s *BoardService) DeleteColumn(id int64) error {
	if err := s.store.DeleteColumn(id); err != nil {
		return err
	}
	s.logger.Infof("Deleted column %d", id)
	return nil
}
