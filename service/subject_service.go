// file: service/subject_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"planner-api/model"
	"planner-api/repository"
	"time"
)

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrNotSubjectOwner  = errors.New("you can only manage your own subjects")
	ErrDuplicateSubject = errors.New("a subject with this code already exists")
)

// SubjectService includes a cache client for the per-user subject listing.
type SubjectService struct {
	repo  repository.ISubjectRepository
	cache ICacheClient
}

func NewSubjectService(repo repository.ISubjectRepository, cache ICacheClient) *SubjectService {
	return &SubjectService{repo: repo, cache: cache}
}

func subjectsCacheKey(userID string) string {
	return fmt.Sprintf("subjects:%s", userID)
}

// CreateSubject saves a new subject and invalidates the owner's cached
// listing.
func (s *SubjectService) CreateSubject(ctx context.Context, userID string, req model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		UserID:  userID,
		Name:    req.Name,
		Code:    req.Code,
		Credits: req.Credits,
		Color:   req.Color,
	}

	if err := s.repo.CreateSubject(subject); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubjectCode) {
			return nil, ErrDuplicateSubject
		}
		return nil, err
	}

	s.cache.Del(ctx, subjectsCacheKey(userID))
	return subject, nil
}

// ListSubjectsForUser lists a user's subjects with a cache-aside strategy.
func (s *SubjectService) ListSubjectsForUser(ctx context.Context, userID string) ([]*model.Subject, error) {
	cacheKey := subjectsCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var subjects []*model.Subject
		if err := json.Unmarshal([]byte(cached), &subjects); err == nil {
			return subjects, nil
		}
	}

	subjects, err := s.repo.GetSubjectsByUserID(userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(subjects); err == nil {
		s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
	}

	return subjects, nil
}

// DeleteSubject removes a subject after checking ownership, then
// invalidates the cached listing.
func (s *SubjectService) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	subject, err := s.repo.GetSubjectByID(subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrSubjectNotFound
		}
		return err
	}
	if subject.UserID != userID {
		return ErrNotSubjectOwner
	}

	if err := s.repo.DeleteSubject(subjectID); err != nil {
		return err
	}

	s.cache.Del(ctx, subjectsCacheKey(userID))
	return nil
}
