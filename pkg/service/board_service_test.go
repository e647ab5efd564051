package service_test

import (
	"testing"

	"github.com/dmilosevic/boardflow/internal/log"
	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestListWorkspacesSeedsStarterBoard(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	workspaces, err := svc.ListWorkspaces("user-1")
	assert.NoError(t, err)
	assert.Len(t, workspaces, 1)
	assert.Equal(t, "My Workspace", workspaces[0].Name)
	assert.Equal(t, "user-1", workspaces[0].OwnerID)

	projects, err := svc.ListProjects(workspaces[0].ID)
	assert.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, "My Project", projects[0].Name)

	board, err := svc.GetBoard(projects[0].ID)
	assert.NoError(t, err)
	assert.Len(t, board.Columns, 3)
	assert.Equal(t, "To Do", board.Columns[0].Name)
	assert.Equal(t, 0, board.Columns[0].Order)
	assert.Equal(t, "In Progress", board.Columns[1].Name)
	assert.Equal(t, 1, board.Columns[1].Order)
	assert.Equal(t, "Done", board.Columns[2].Name)
	assert.Equal(t, 2, board.Columns[2].Order)

	assert.Len(t, board.Columns[0].Tasks, 2)
	assert.Equal(t, "Welcome to your new project!", board.Columns[0].Tasks[0].Title)
	assert.Equal(t, models.HighPriority, board.Columns[0].Tasks[0].Priority)
	assert.Equal(t, 0, board.Columns[0].Tasks[0].Order)
	assert.Equal(t, "Explore the features", board.Columns[0].Tasks[1].Title)
	assert.Equal(t, models.MediumPriority, board.Columns[0].Tasks[1].Priority)
	assert.Equal(t, 1, board.Columns[0].Tasks[1].Order)
	assert.Empty(t, board.Columns[1].Tasks)
	assert.Empty(t, board.Columns[2].Tasks)
}

func TestListWorkspacesDoesNotReseed(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	first, err := svc.ListWorkspaces("user-1")
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := svc.ListWorkspaces("user-1")
	assert.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	projects, err := svc.ListProjects(second[0].ID)
	assert.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestListWorkspacesSeedsPerPrincipal(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	alice, err := svc.ListWorkspaces("alice")
	assert.NoError(t, err)
	bob, err := svc.ListWorkspaces("bob")
	assert.NoError(t, err)

	assert.NotEqual(t, alice[0].ID, bob[0].ID)
	assert.Equal(t, "alice", alice[0].OwnerID)
	assert.Equal(t, "bob", bob[0].OwnerID)
}

func TestListWorkspacesScopedToOwner(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	seeded, err := svc.ListWorkspaces("alice")
	assert.NoError(t, err)
	_, err = svc.CreateWorkspace("alice", "Second", nil)
	assert.NoError(t, err)

	bob, err := svc.ListWorkspaces("bob")
	assert.NoError(t, err)
	assert.Len(t, bob, 1)
	assert.NotEqual(t, seeded[0].ID, bob[0].ID)
}

func TestCreateWorkspaceValidation(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	_, err := svc.CreateWorkspace("user-1", "", nil)
	var validationErr *service.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Field)
}

func TestCreateProjectValidation(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	ws, err := svc.CreateWorkspace("user-1", "Workspace", nil)
	assert.NoError(t, err)

	_, err = svc.CreateProject(ws.ID, "   ", nil)
	var validationErr *service.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestGetBoardMissingProject(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	_, err := svc.GetBoard(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestColumnsSortedByOrderThenID(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	ws, err := svc.CreateWorkspace("user-1", "Workspace", nil)
	assert.NoError(t, err)
	proj, err := svc.CreateProject(ws.ID, "Project", nil)
	assert.NoError(t, err)

	// duplicate orders are legal; the tie is broken by insertion id
	first, err := svc.CreateColumn(proj.ID, "First", 1)
	assert.NoError(t, err)
	second, err := svc.CreateColumn(proj.ID, "Second", 0)
	assert.NoError(t, err)
	third, err := svc.CreateColumn(proj.ID, "Third", 1)
	assert.NoError(t, err)

	board, err := svc.GetBoard(proj.ID)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, board.Columns[0].ID)
	assert.Equal(t, first.ID, board.Columns[1].ID)
	assert.Equal(t, third.ID, board.Columns[2].ID)
}

func TestUpdateColumn(t *testing.T) {
	store := storage.NewMockStore()
	svc := service.NewBoardService(store, log.GetLogger())

	ws, _ := svc.CreateWorkspace("user-1", "Workspace", nil)
	proj, _ := svc.CreateProject(ws.ID, "Project", nil)
	col, _ := svc.CreateColumn(proj.ID, "Backlog", 0)

	newName := "Icebox"
	newOrder := 5
	updated, err := svc.UpdateColumn(col.ID, models.ColumnUpdate{Name: &newName, Order: &newOrder})
	assert.NoError(t, err)
	assert.Equal(t, "Icebox", updated.Name)
	assert.Equal(t, 5, updated.Order)

	_, err = svc.UpdateColumn(999, models.ColumnUpdate{Name: &newName})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteColumnRemovesTasks(t *testing.T) {
	store := storage.NewMockStore()
	boardSvc := service.NewBoardService(store, log.GetLogger())
	taskSvc := service.NewTaskService(store, log.GetLogger())

	ws, _ := boardSvc.CreateWorkspace("user-1", "Workspace", nil)
	proj, _ := boardSvc.CreateProject(ws.ID, "Project", nil)
	col, _ := boardSvc.CreateColumn(proj.ID, "Doomed", 0)
	_, err := taskSvc.CreateTask(col.ID, service.CreateTaskInput{Title: "Goes with the column"})
	assert.NoError(t, err)

	assert.NoError(t, boardSvc.DeleteColumn(col.ID))

	board, err := boardSvc.GetBoard(proj.ID)
	assert.NoError(t, err)
	assert.Empty(t, board.Columns)
}
