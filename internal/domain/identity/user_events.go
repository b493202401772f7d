package identity

import (
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is published when a visitor opens an account
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Email:           user.Email,
	}
}
