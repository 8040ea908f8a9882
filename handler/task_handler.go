package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"planner-api/common"
	"planner-api/model"
	"planner-api/service"
)

type TaskHandler struct {
	service *service.TaskService
}

func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask adds a task to one of the caller's subjects.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTaskRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	task, err := h.service.CreateTask(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return common.NewAppError(http.StatusNotFound, "Subject not found", nil)
		case errors.Is(err, service.ErrNotSubjectOwner):
			return common.NewAppError(http.StatusForbidden, "You can only add tasks to your own subjects", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create task", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
	return nil
}

// ListTasks lists the caller's tasks across all subjects.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	tasks, err := h.service.ListTasksForUser(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve tasks", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tasks)
	return nil
}

// UpdateTaskStatus toggles a task between pending and done.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateTaskStatusRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), userID, r.PathValue("id"), req.Status)
	if err != nil {
		return taskError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
	return nil
}

// DeleteTask removes one of the caller's tasks.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	if err := h.service.DeleteTask(r.Context(), userID, r.PathValue("id")); err != nil {
		return taskError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func taskError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return common.NewAppError(http.StatusNotFound, "Task not found", nil)
	case errors.Is(err, service.ErrNotTaskOwner):
		return common.NewAppError(http.StatusForbidden, "You can only manage your own tasks", nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not complete task operation", err)
	}
}
