package service

import (
	"context"
	"database/sql"
	"errors"
	"planner-api/model"
	"planner-api/repository"
	"time"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("you can only manage your own tasks")
)

// TaskService handles per-subject task business logic.
type TaskService struct {
	taskRepo    repository.ITaskRepository
	subjectRepo repository.ISubjectRepository
}

func NewTaskService(taskRepo repository.ITaskRepository, subjectRepo repository.ISubjectRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, subjectRepo: subjectRepo}
}

// CreateTask validates that the target subject belongs to the caller before
// inserting the task.
func (s *TaskService) CreateTask(ctx context.Context, userID string, req model.CreateTaskRequest) (*model.Task, error) {
	subject, err := s.subjectRepo.GetSubjectByID(req.SubjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if subject.UserID != userID {
		return nil, ErrNotSubjectOwner
	}

	// Validated upstream with a datetime tag, so this parse cannot fail.
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		SubjectID: req.SubjectID,
		UserID:    userID,
		Title:     req.Title,
		DueDate:   dueDate,
		Priority:  req.Priority,
		Status:    model.TaskPending,
	}
	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksForUser returns every task owned by the caller.
func (s *TaskService) ListTasksForUser(ctx context.Context, userID string) ([]*model.Task, error) {
	return s.taskRepo.GetTasksByUserID(userID)
}

// UpdateTaskStatus toggles a task between pending and done, owner only.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, userID, taskID string, status model.TaskStatus) (*model.Task, error) {
	task, err := s.ownedTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateTaskStatus(taskID, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}

// DeleteTask removes a task, owner only.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := s.ownedTask(userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.DeleteTask(taskID)
}

func (s *TaskService) ownedTask(userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}
