package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"planner-api/common"
	"planner-api/logger"
	"planner-api/model"
	"planner-api/service"

	"github.com/sirupsen/logrus"
)

type SubjectHandler struct {
	service *service.SubjectService
}

func NewSubjectHandler(service *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: service}
}

// CreateSubject registers a subject in the caller's study plan.
func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateSubjectRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"code":    req.Code,
	})
	log.Info("Create subject request received")

	subject, err := h.service.CreateSubject(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateSubject) {
			return common.NewAppError(http.StatusConflict, "Subject code already exists", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create subject", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(subject)
	return nil
}

// ListSubjects lists the caller's subjects.
func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	subjects, err := h.service.ListSubjectsForUser(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve subjects", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(subjects)
	return nil
}

// DeleteSubject removes one of the caller's subjects.
func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	err := h.service.DeleteSubject(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return common.NewAppError(http.StatusNotFound, "Subject not found", nil)
		case errors.Is(err, service.ErrNotSubjectOwner):
			return common.NewAppError(http.StatusForbidden, "You can only manage your own subjects", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not delete subject", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
