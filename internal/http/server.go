package http

import (
	"fmt"
	"net/http"

	"github.com/dmilosevic/boardflow/internal/log"
	"github.com/dmilosevic/boardflow/pkg/service"
	"github.com/dmilosevic/boardflow/pkg/storage"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires every endpoint. Register and login are open; everything
// else under /api passes through the session middleware.
func NewRouter(store storage.Store, jwtSecret []byte) http.Handler {
	logger := log.GetLogger()
	authSvc := service.NewAuthService(store, jwtSecret, logger)
	boardSvc := service.NewBoardService(store, logger)
	taskSvc := service.NewTaskService(store, logger)

	authHandler := NewAuthHandler(authSvc)
	workspaceHandler := NewWorkspaceHandler(boardSvc)
	columnHandler := NewColumnHandler(boardSvc)
	taskHandler := NewTaskHandler(taskSvc)
	authMw := NewAuthMiddleware(authSvc)

	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMw.Require)

	api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	api.HandleFunc("/workspaces", workspaceHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/workspaces", workspaceHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id:[0-9]+}", workspaceHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspaceId:[0-9]+}/projects", workspaceHandler.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspaceId:[0-9]+}/projects", workspaceHandler.CreateProject).Methods(http.MethodPost)

	api.HandleFunc("/projects/{id:[0-9]+}", workspaceHandler.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId:[0-9]+}/columns", columnHandler.Create).Methods(http.MethodPost)

	api.HandleFunc("/columns/{id:[0-9]+}", columnHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/columns/{id:[0-9]+}", columnHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/columns/{columnId:[0-9]+}/tasks", taskHandler.Create).Methods(http.MethodPost)

	api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id:[0-9]+}/move", taskHandler.Move).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{taskId:[0-9]+}/subtasks", taskHandler.ListSubtasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId:[0-9]+}/subtasks", taskHandler.CreateSubtask).Methods(http.MethodPost)
	api.HandleFunc("/subtasks/{id:[0-9]+}", taskHandler.UpdateSubtask).Methods(http.MethodPut)
	api.HandleFunc("/subtasks/{id:[0-9]+}", taskHandler.DeleteSubtask).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{taskId:[0-9]+}/comments", taskHandler.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId:[0-9]+}/comments", taskHandler.CreateComment).Methods(http.MethodPost)

	api.HandleFunc("/tasks/{taskId:[0-9]+}/assignees", taskHandler.ListAssignees).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId:[0-9]+}/assignees", taskHandler.AddAssignee).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "boardflow server is running")
}

// StartServer blocks serving the API on the given port.
func StartServer(port string, store storage.Store, jwtSecret []byte) error {
	handler := NewRouter(store, jwtSecret)
	log.GetLogger().Infof("Starting boardflow server on :%s", port)
	return http.ListenAndServe(":"+port, handler)
}
