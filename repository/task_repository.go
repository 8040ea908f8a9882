package repository

import (
	"database/sql"
	"planner-api/model"

	"github.com/google/uuid"
)

// ITaskRepository defines the contract for task database operations.
type ITaskRepository interface {
	CreateTask(task *model.Task) error
	GetTasksByUserID(userID string) ([]*model.Task, error)
	GetTaskByID(id string) (*model.Task, error)
	UpdateTaskStatus(id string, status model.TaskStatus) error
	DeleteTask(id string) error
}

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) CreateTask(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	query := `INSERT INTO tasks (id, subject_id, user_id, title, due_date, priority, status) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	return r.DB.QueryRow(query, task.ID, task.SubjectID, task.UserID, task.Title, task.DueDate, task.Priority, task.Status).Scan(&task.CreatedAt)
}

func (r *TaskRepository) GetTasksByUserID(userID string) ([]*model.Task, error) {
	query := `
		SELECT id, subject_id, user_id, title, due_date, priority, status, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY due_date, priority DESC`

	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.UserID, &t.Title, &t.DueDate, &t.Priority, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetTaskByID(id string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT id, subject_id, user_id, title, due_date, priority, status, created_at FROM tasks WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&task.ID, &task.SubjectID, &task.UserID, &task.Title, &task.DueDate, &task.Priority, &task.Status, &task.CreatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) UpdateTaskStatus(id string, status model.TaskStatus) error {
	query := `UPDATE tasks SET status = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *TaskRepository) DeleteTask(id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
