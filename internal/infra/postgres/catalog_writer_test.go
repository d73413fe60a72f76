package postgres

import (
	"context"
	"errors"
	"testing"

	"mission-quiz-service/internal/domain"
	"mission-quiz-service/internal/seed"
)

// Validation runs before any statement, so a nil pool is never touched.
func TestUpsertCatalogRejectsMismatchedContent(t *testing.T) {
	catalog := seed.Catalog()
	catalog.Questions[0].Type = domain.QuestionVideo

	err := NewCatalogWriter(nil).UpsertCatalog(context.Background(), catalog)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertCatalogRejectsMissingContent(t *testing.T) {
	catalog := domain.Catalog{Questions: []domain.Question{{ID: "q", MissionID: "m", Type: domain.QuestionText}}}

	err := NewCatalogWriter(nil).UpsertCatalog(context.Background(), catalog)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "content" {
		t.Fatalf("expected content validation error, got %v", err)
	}
}
