package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"mission-quiz-service/internal/app"
	"mission-quiz-service/internal/domain"
	"mission-quiz-service/internal/infra/memory"
)

func TestRegisterHashesPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := app.NewUserServiceWithCost(store, bcrypt.MinCost)

	user, err := users.Register(ctx, "  newbie ", "secret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "newbie" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if user.PasswordHash == "secret-pass" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")) != nil {
		t.Fatalf("expected bcrypt hash of the password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("wrong")) == nil {
		t.Fatalf("wrong password must not match")
	}

	if _, err := users.Register(ctx, "newbie", "another-pass"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	users := app.NewUserServiceWithCost(memory.NewStore(), bcrypt.MinCost)
	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"short username", "ab", "secret-pass", "username"},
		{"blank username", "   ", "secret-pass", "username"},
		{"short password", "player2", "123", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Register(context.Background(), tt.username, tt.password)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}
