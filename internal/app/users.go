package app

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"mission-quiz-service/internal/domain"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 6
)

// UserService registers players.
type UserService struct {
	users PlayerStore
	cost  int
}

func NewUserService(users PlayerStore) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// NewUserServiceWithCost is used by tests to keep hashing cheap.
func NewUserServiceWithCost(users PlayerStore, cost int) *UserService {
	return &UserService{users: users, cost: cost}
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if n := len(username); n < minUsernameLength || n > maxUsernameLength {
		return domain.User{}, domain.Invalid("username", fmt.Sprintf("must be %d-%d characters", minUsernameLength, maxUsernameLength))
	}
	if len(password) < minPasswordLength {
		return domain.User{}, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.CreateUser(ctx, username, hash)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
