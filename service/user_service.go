package service

import (
	"errors"
	"planner-api/model"
	"planner-api/repository"
	"strings"
)

var ErrEmailTaken = errors.New("email already registered")

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register hashes the password and stores a new student account. The email
// is normalized once here so lookups at login time match.
func (s *UserService) Register(fullName, email, password string) (*model.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashed,
		Role:     model.RoleStudent,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// GetProfile returns the user record for an authenticated subject.
func (s *UserService) GetProfile(userID string) (*model.User, error) {
	return s.userRepo.GetUserByID(userID)
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID string, newRole model.Role) error {
	// We ensure that only valid roles can be assigned.
	if newRole != model.RoleAdmin && newRole != model.RoleStudent {
		return errors.New("invalid role specified")
	}
	return s.userRepo.UpdateUserRole(userID, string(newRole))
}
