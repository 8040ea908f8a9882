package repository

import (
	"database/sql"
	"errors"
	"planner-api/logger"
	"planner-api/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicateSubjectCode is returned when a user already has a subject with
// the same code.
var ErrDuplicateSubjectCode = errors.New("subject code already registered for this user")

// ISubjectRepository defines the contract for subject database operations.
type ISubjectRepository interface {
	CreateSubject(subject *model.Subject) error
	GetSubjectsByUserID(userID string) ([]*model.Subject, error)
	GetSubjectByID(id string) (*model.Subject, error)
	DeleteSubject(id string) error
}

type SubjectRepository struct {
	DB *sql.DB
}

func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) CreateSubject(subject *model.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	query := `INSERT INTO subjects (id, user_id, name, code, credits, color) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := r.DB.QueryRow(query, subject.ID, subject.UserID, subject.Name, subject.Code, subject.Credits, subject.Color).Scan(&subject.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateSubjectCode
		}
		logger.Log.WithField("user_id", subject.UserID).WithError(err).Error("Failed to execute create subject query")
		return err
	}
	return nil
}

func (r *SubjectRepository) GetSubjectsByUserID(userID string) ([]*model.Subject, error) {
	query := `SELECT id, user_id, name, code, credits, color, created_at FROM subjects WHERE user_id = $1 ORDER BY code`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Code, &s.Credits, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) GetSubjectByID(id string) (*model.Subject, error) {
	subject := &model.Subject{}
	query := `SELECT id, user_id, name, code, credits, color, created_at FROM subjects WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&subject.ID, &subject.UserID, &subject.Name, &subject.Code, &subject.Credits, &subject.Color, &subject.CreatedAt)
	if err != nil {
		return nil, err
	}
	return subject, nil
}

func (r *SubjectRepository) DeleteSubject(id string) error {
	query := `DELETE FROM subjects WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
