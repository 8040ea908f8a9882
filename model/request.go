// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user account.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the raw refresh token for the refresh and logout
// endpoints.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin student"`
}

// CreateSubjectRequest defines the payload for registering a subject in the
// caller's study plan.
type CreateSubjectRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Code    string `json:"code" validate:"required,min=2,max=20"`
	Credits int    `json:"credits" validate:"required,gte=1,lte=20"`
	Color   string `json:"color" validate:"omitempty,hexcolor"`
}

// CreateTaskRequest defines the payload for adding a task to a subject.
type CreateTaskRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
	Title     string `json:"title" validate:"required,min=2,max=200"`
	DueDate   string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority  int    `json:"priority" validate:"gte=0,lte=3"`
}

// UpdateTaskStatusRequest toggles a task between pending and done.
type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status" validate:"required,oneof=pending done"`
}
