package model

import "time"

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

type Task struct {
	ID        string     `json:"id"`
	SubjectID string     `json:"subject_id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	DueDate   time.Time  `json:"due_date"`
	Priority  int        `json:"priority"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
