package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/artesania-app/artesania-backend/pkg/db"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/google/uuid"
)

// CategoryInput carries the single editable category field.
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
}

// Service manages the admin-curated category catalog.
type Service interface {
	Create(ctx context.Context, input CategoryInput) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the categories service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(input.Name)}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, db.Translate(err, "category")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	return categories, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, db.Translate(err, "category")
	}

	if err := s.repo.UpdateName(ctx, id, strings.TrimSpace(input.Name)); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, db.Translate(err, "category")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return db.Translate(err, "category")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Translate(err, "category")
	}
	return nil
}
