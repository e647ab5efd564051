package storage_test

import (
	"testing"

	internal_storage "github.com/dmilosevic/boardflow/internal/storage"
	"github.com/dmilosevic/boardflow/internal/testutil"
	"github.com/dmilosevic/boardflow/pkg/models"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	defer testDB.Teardown(t)

	// Helper to create a transactional store; every subtest works inside its
	// own rolled-back transaction.
	newTxStore := func(t *testing.T) *internal_storage.PostgresStore {
		store, err := internal_storage.NewPostgresStore(testDB.ConnStr)
		assert.NoError(t, err)
		txStore, err := store.Begin()
		assert.NoError(t, err)
		t.Cleanup(func() { txStore.Rollback() })
		return txStore.(*internal_storage.PostgresStore)
	}

	saveUser := func(t *testing.T, store *internal_storage.PostgresStore, id, username string) models.User {
		err := store.SaveUser(models.User{ID: id, Username: username, Password: "hash"})
		assert.NoError(t, err)
		u, err := store.GetUser(id)
		assert.NoError(t, err)
		return u
	}

	newBoard := func(t *testing.T, store *internal_storage.PostgresStore, ownerID string) (int64, int64) {
		wsID, err := store.SaveWorkspace(models.Workspace{Name: "WS", OwnerID: ownerID})
		assert.NoError(t, err)
		projID, err := store.SaveProject(models.Project{Name: "P", WorkspaceID: wsID})
		assert.NoError(t, err)
		return wsID, projID
	}

	t.Run("SaveAndGetUser", func(t *testing.T) {
		store := newTxStore(t)
		saved := saveUser(t, store, "u1", "mira")
		assert.Equal(t, "mira", saved.Username)
		assert.False(t, saved.CreatedAt.IsZero())

		byName, err := store.GetUserByUsername("mira")
		assert.NoError(t, err)
		assert.Equal(t, saved.ID, byName.ID)

		_, err = store.GetUser("missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListWorkspacesFiltersByOwner", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "alice")
		saveUser(t, store, "u2", "bob")
		_, err := store.SaveWorkspace(models.Workspace{Name: "Alice's", OwnerID: "u1"})
		assert.NoError(t, err)
		_, err = store.SaveWorkspace(models.Workspace{Name: "Bob's", OwnerID: "u2"})
		assert.NoError(t, err)

		workspaces, err := store.ListWorkspaces("u1")
		assert.NoError(t, err)
		assert.Len(t, workspaces, 1)
		assert.Equal(t, "Alice's", workspaces[0].Name)

		empty, err := store.ListWorkspaces("u3")
		assert.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("SaveWorkspaceRejectsMissingOwner", func(t *testing.T) {
		store := newTxStore(t)
		_, err := store.SaveWorkspace(models.Workspace{Name: "Orphan", OwnerID: "ghost"})
		assert.Error(t, err)
	})

	t.Run("ColumnsSortedByOrderThenID", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")

		idB, err := store.SaveColumn(models.Column{Name: "B", ProjectID: projID, Order: 1})
		assert.NoError(t, err)
		idA, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID, Order: 0})
		assert.NoError(t, err)
		idC, err := store.SaveColumn(models.Column{Name: "C", ProjectID: projID, Order: 1})
		assert.NoError(t, err)

		columns, err := store.ListColumns(projID)
		assert.NoError(t, err)
		assert.Len(t, columns, 3)
		assert.Equal(t, idA, columns[0].ID)
		assert.Equal(t, idB, columns[1].ID)
		assert.Equal(t, idC, columns[2].ID)
	})

	t.Run("TasksSortedByOrderThenID", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID, Order: 0})
		assert.NoError(t, err)

		// orders are stored verbatim: gaps and duplicates survive the write
		idTen, err := store.SaveTask(models.Task{ColumnID: colID, Title: "ten", Priority: "medium", Order: 10})
		assert.NoError(t, err)
		idThreeA, err := store.SaveTask(models.Task{ColumnID: colID, Title: "three-a", Priority: "medium", Order: 3})
		assert.NoError(t, err)
		idThreeB, err := store.SaveTask(models.Task{ColumnID: colID, Title: "three-b", Priority: "medium", Order: 3})
		assert.NoError(t, err)

		tasks, err := store.ListTasks(colID)
		assert.NoError(t, err)
		assert.Len(t, tasks, 3)
		assert.Equal(t, idThreeA, tasks[0].ID)
		assert.Equal(t, idThreeB, tasks[1].ID)
		assert.Equal(t, idTen, tasks[2].ID)
	})

	t.Run("SaveTaskRejectsMissingColumn", func(t *testing.T) {
		store := newTxStore(t)
		_, err := store.SaveTask(models.Task{ColumnID: 12345, Title: "orphan", Priority: "medium"})
		assert.Error(t, err)
	})

	t.Run("SaveTaskRejectsUnknownPriority", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)

		_, err = store.SaveTask(models.Task{ColumnID: colID, Title: "bad", Priority: "urgent"})
		assert.Error(t, err)
	})

	t.Run("UpdateTaskMove", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colA, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID, Order: 0})
		assert.NoError(t, err)
		colB, err := store.SaveColumn(models.Column{Name: "B", ProjectID: projID, Order: 1})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colA, Title: "T", Priority: "medium", Order: 0})
		assert.NoError(t, err)

		order := 4
		moved, err := store.UpdateTask(taskID, models.TaskUpdate{ColumnID: &colB, Order: &order})
		assert.NoError(t, err)
		assert.Equal(t, colB, moved.ColumnID)
		assert.Equal(t, 4, moved.Order)
		assert.True(t, moved.UpdatedAt.After(moved.CreatedAt) || moved.UpdatedAt.Equal(moved.CreatedAt))

		fromA, err := store.ListTasks(colA)
		assert.NoError(t, err)
		assert.Empty(t, fromA)
		fromB, err := store.ListTasks(colB)
		assert.NoError(t, err)
		assert.Len(t, fromB, 1)
	})

	t.Run("UpdateTaskRejectsMissingColumn", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colA, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colA, Title: "T", Priority: "medium"})
		assert.NoError(t, err)

		ghost := int64(9999)
		order := 0
		_, err = store.UpdateTask(taskID, models.TaskUpdate{ColumnID: &ghost, Order: &order})
		assert.Error(t, err)
	})

	t.Run("UpdateMissingTask", func(t *testing.T) {
		store := newTxStore(t)
		title := "nope"
		_, err := store.UpdateTask(424242, models.TaskUpdate{Title: &title})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("TaskDefaultsPriorityAtSchemaLevel", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colID, Title: "T", Priority: "medium"})
		assert.NoError(t, err)

		task, err := store.GetTask(taskID)
		assert.NoError(t, err)
		assert.Equal(t, models.MediumPriority, task.Priority)
	})

	t.Run("DeleteColumnCascadesToTasks", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "Doomed", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colID, Title: "T", Priority: "medium"})
		assert.NoError(t, err)

		assert.NoError(t, store.DeleteColumn(colID))

		_, err = store.GetColumn(colID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetTask(taskID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateColumnPartial", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "Backlog", ProjectID: projID, Order: 0})
		assert.NoError(t, err)

		newOrder := 7
		updated, err := store.UpdateColumn(colID, models.ColumnUpdate{Order: &newOrder})
		assert.NoError(t, err)
		assert.Equal(t, "Backlog", updated.Name)
		assert.Equal(t, 7, updated.Order)

		// an empty update is a read
		same, err := store.UpdateColumn(colID, models.ColumnUpdate{})
		assert.NoError(t, err)
		assert.Equal(t, updated, same)
	})

	t.Run("SubtasksRoundTrip", func(t *testing.T) {
		store := newTxStore(t)
		saveUser(t, store, "u1", "mira")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colID, Title: "Parent", Priority: "medium"})
		assert.NoError(t, err)

		secondID, err := store.SaveSubtask(models.Subtask{TaskID: taskID, Title: "second", Order: 1})
		assert.NoError(t, err)
		firstID, err := store.SaveSubtask(models.Subtask{TaskID: taskID, Title: "first", Order: 0})
		assert.NoError(t, err)

		subtasks, err := store.ListSubtasks(taskID)
		assert.NoError(t, err)
		assert.Len(t, subtasks, 2)
		assert.Equal(t, firstID, subtasks[0].ID)
		assert.Equal(t, secondID, subtasks[1].ID)

		done := true
		updated, err := store.UpdateSubtask(firstID, models.SubtaskUpdate{Completed: &done})
		assert.NoError(t, err)
		assert.True(t, updated.Completed)
	})

	t.Run("CommentsJoinAuthors", func(t *testing.T) {
		store := newTxStore(t)
		author := saveUser(t, store, "u1", "author")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colID, Title: "Discussed", Priority: "medium"})
		assert.NoError(t, err)

		_, err = store.SaveComment(models.Comment{TaskID: taskID, UserID: author.ID, Content: "first"})
		assert.NoError(t, err)
		_, err = store.SaveComment(models.Comment{TaskID: taskID, UserID: author.ID, Content: "second"})
		assert.NoError(t, err)

		comments, err := store.ListComments(taskID)
		assert.NoError(t, err)
		assert.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "author", comments[0].User.Username)
	})

	t.Run("TaskAssignees", func(t *testing.T) {
		store := newTxStore(t)
		user := saveUser(t, store, "u1", "assignee")
		_, projID := newBoard(t, store, "u1")
		colID, err := store.SaveColumn(models.Column{Name: "A", ProjectID: projID})
		assert.NoError(t, err)
		taskID, err := store.SaveTask(models.Task{ColumnID: colID, Title: "Assigned", Priority: "medium"})
		assert.NoError(t, err)

		assert.NoError(t, store.AddTaskAssignee(taskID, user.ID))
		// the (task, user) pair is unique
		assert.Error(t, store.AddTaskAssignee(taskID, user.ID))

		assignees, err := store.ListTaskAssignees(taskID)
		assert.NoError(t, err)
		assert.Len(t, assignees, 1)
		assert.Equal(t, user.ID, assignees[0].ID)
	})
}
