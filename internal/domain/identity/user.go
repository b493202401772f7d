package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.@+]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a shop account. Staff users administer the catalog and orders.
type User struct {
	shared.BaseAggregateRoot
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Phone        string `gorm:"type:varchar(20)"`
	FirstName    string `gorm:"type:varchar(150)"`
	LastName     string `gorm:"type:varchar(150)"`
	IsStaff      bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// Registration carries the fields a visitor submits to open an account.
type Registration struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Phone           string
	FirstName       string
	LastName        string
}

// Register validates a registration and creates an active customer account.
func Register(r Registration) (*User, error) {
	if err := validateUsername(r.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(r.Email); err != nil {
		return nil, err
	}
	if r.Password != r.PasswordConfirm {
		return nil, shared.ErrPasswordMismatch
	}
	if err := validatePassword(r.Password); err != nil {
		return nil, err
	}
	if err := validatePhone(r.Phone); err != nil {
		return nil, err
	}

	hash, err := hashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.TrimSpace(r.Username),
		Email:             strings.ToLower(strings.TrimSpace(r.Email)),
		PasswordHash:      hash,
		Phone:             strings.TrimSpace(r.Phone),
		FirstName:         strings.TrimSpace(r.FirstName),
		LastName:          strings.TrimSpace(r.LastName),
		IsActive:          true,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// UpdateProfile changes the contact details of the user.
func (u *User) UpdateProfile(firstName, lastName, phone string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// SetPassword replaces the password hash.
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// PromoteToStaff grants administrative access.
func (u *User) PromoteToStaff() {
	u.IsStaff = true
	u.Touch()
	u.IncrementVersion()
}

// Deactivate prevents the user from logging in.
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
}

// RecordLogin stamps the last successful login.
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}

// FullName returns "first last", or the username when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError(shared.CodeValidation, "Username cannot be empty")
	}
	if len(username) > 150 {
		return shared.NewDomainError(shared.CodeValidation, "Username cannot exceed 150 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError(shared.CodeValidation, "Username can only contain letters, numbers and @/./+/-/_")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeValidation, "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError(shared.CodeValidation, "Password cannot exceed 128 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewDomainError(shared.CodeValidation, "Invalid email format")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(strings.TrimSpace(phone)) > 20 {
		return shared.NewDomainError(shared.CodeValidation, "Phone cannot exceed 20 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError(shared.CodeValidation, "Failed to hash password")
	}
	return string(hash), nil
}
