package router

import (
	"net/http"
	"planner-api/handler"
)

// NewRouter wires the HTTP surface. AuthMiddleware wraps everything and
// only attaches identity; RequireAuth/RequireRole guard the protected
// subtrees.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	subjectHandler *handler.SubjectHandler,
	taskHandler *handler.TaskHandler,
	decoder handler.TokenDecoder,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	if authHandler != nil {
		mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
		mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
		mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
	}

	if userHandler != nil {
		mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
		mux.Handle("GET /api/me", handler.RequireAuth(handler.ErrorHandlingMiddleware(userHandler.Me)))
		mux.Handle("PUT /api/users/{id}/role",
			handler.RequireRole("admin")(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole)))
	}

	if subjectHandler != nil {
		mux.Handle("POST /api/subjects", handler.RequireAuth(handler.ErrorHandlingMiddleware(subjectHandler.CreateSubject)))
		mux.Handle("GET /api/subjects", handler.RequireAuth(handler.ErrorHandlingMiddleware(subjectHandler.ListSubjects)))
		mux.Handle("DELETE /api/subjects/{id}", handler.RequireAuth(handler.ErrorHandlingMiddleware(subjectHandler.DeleteSubject)))
	}

	if taskHandler != nil {
		mux.Handle("POST /api/tasks", handler.RequireAuth(handler.ErrorHandlingMiddleware(taskHandler.CreateTask)))
		mux.Handle("GET /api/tasks", handler.RequireAuth(handler.ErrorHandlingMiddleware(taskHandler.ListTasks)))
		mux.Handle("PUT /api/tasks/{id}/status", handler.RequireAuth(handler.ErrorHandlingMiddleware(taskHandler.UpdateTaskStatus)))
		mux.Handle("DELETE /api/tasks/{id}", handler.RequireAuth(handler.ErrorHandlingMiddleware(taskHandler.DeleteTask)))
	}

	if decoder == nil {
		return mux
	}
	return handler.AuthMiddleware(decoder)(mux)
}
