package artisans

import (
	"context"
	"fmt"
	"strings"

	"github.com/artesania-app/artesania-backend/internal/users"
	"github.com/artesania-app/artesania-backend/pkg/db"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const topProductLimit = 8

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service covers the artisan application workflow, the public storefront,
// and the admin review queue.
type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, input ApplyInput) (*models.Artisan, error)
	GetStorefront(ctx context.Context, artisanID uuid.UUID) (*Storefront, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Artisan, error)
	ListPending(ctx context.Context, params pagination.Params) (*PendingList, error)
	Approve(ctx context.Context, artisanID uuid.UUID) error
	Reject(ctx context.Context, artisanID uuid.UUID) error
}

type service struct {
	repo  Repository
	users users.Repository
	tx    txRunner
}

// NewService builds the artisans service with the required dependencies.
func NewService(repo Repository, userRepo users.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("artisans repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, users: userRepo, tx: tx}, nil
}

func (s *service) Apply(ctx context.Context, userID uuid.UUID, input ApplyInput) (*models.Artisan, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	if user.Role == enums.UserRoleArtisan || user.ArtisanProfile != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already an artisan")
	}

	addressCount, err := s.users.CountAddresses(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "address")
	}
	if addressCount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user must have at least one registered address")
	}

	artisan := &models.Artisan{
		UserID:            userID,
		StoreName:         strings.TrimSpace(input.StoreName),
		StoreDescription:  input.StoreDescription,
		Identification:    strings.TrimSpace(input.Identification),
		ProofOfAddressURL: input.ProofOfAddressURL,
		Status:            enums.ArtisanStatusPending,
	}

	created, err := s.repo.Create(ctx, artisan)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "artisan application already submitted")
		}
		return nil, db.Translate(err, "artisan")
	}
	return created, nil
}

func (s *service) GetStorefront(ctx context.Context, artisanID uuid.UUID) (*Storefront, error) {
	if artisanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artisan id required")
	}

	artisan, err := s.repo.FindByID(ctx, artisanID)
	if err != nil {
		return nil, db.Translate(err, "artisan")
	}
	if artisan.Status != enums.ArtisanStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artisan not found")
	}

	products, err := s.repo.TopProducts(ctx, artisan.ID, topProductLimit)
	if err != nil {
		return nil, db.Translate(err, "product")
	}

	return &Storefront{
		ID:               artisan.ID,
		StoreName:        artisan.StoreName,
		StoreDescription: artisan.StoreDescription,
		Status:           artisan.Status,
		TopProducts:      products,
		CreatedAt:        artisan.CreatedAt,
	}, nil
}

func (s *service) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	artisan, err := s.requireOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	productCount, err := s.repo.CountProducts(ctx, artisan.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}

	ratings, err := s.repo.RatingStats(ctx, artisan.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}

	stats, err := s.repo.SalesStats(ctx, artisan.ID)
	if err != nil {
		return nil, db.Translate(err, "sales")
	}

	return &Dashboard{
		StoreName:        artisan.StoreName,
		Status:           artisan.Status,
		ProductCount:     productCount,
		AvgRating:        ratings.AvgRating,
		ReviewCount:      ratings.ReviewCount,
		ItemsSold:        stats.ItemsSold,
		Revenue:          stats.Revenue,
		PendingItemCount: stats.PendingItemCount,
	}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.Artisan, error) {
	artisan, err := s.requireOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.StoreName != nil {
		updates["store_name"] = strings.TrimSpace(*input.StoreName)
	}
	if input.StoreDescription != nil {
		updates["store_description"] = *input.StoreDescription
	}
	if len(updates) == 0 {
		return artisan, nil
	}

	if err := s.repo.Update(ctx, artisan.ID, updates); err != nil {
		return nil, db.Translate(err, "artisan")
	}

	updated, err := s.repo.FindByID(ctx, artisan.ID)
	if err != nil {
		return nil, db.Translate(err, "artisan")
	}
	return updated, nil
}

func (s *service) ListPending(ctx context.Context, params pagination.Params) (*PendingList, error) {
	artisans, err := s.repo.ListByStatus(ctx, enums.ArtisanStatusPending, params)
	if err != nil {
		return nil, db.Translate(err, "artisan")
	}

	page, hasMore := pagination.TrimPage(artisans, params.Limit)
	list := &PendingList{Artisans: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list, nil
}

// Approve flips the application to approved and promotes the user role in the
// same transaction so the two states can never diverge.
func (s *service) Approve(ctx context.Context, artisanID uuid.UUID) error {
	if artisanID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "artisan id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		artisan, err := repo.FindByID(ctx, artisanID)
		if err != nil {
			return db.Translate(err, "artisan")
		}
		if artisan.Status != enums.ArtisanStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot approve application with status: %s", artisan.Status))
		}

		if err := repo.UpdateStatus(ctx, artisan.ID, enums.ArtisanStatusApproved); err != nil {
			return db.Translate(err, "artisan")
		}
		if err := userRepo.UpdateRole(ctx, artisan.UserID, enums.UserRoleArtisan); err != nil {
			return db.Translate(err, "user")
		}
		return nil
	})
}

func (s *service) Reject(ctx context.Context, artisanID uuid.UUID) error {
	if artisanID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "artisan id required")
	}

	artisan, err := s.repo.FindByID(ctx, artisanID)
	if err != nil {
		return db.Translate(err, "artisan")
	}
	if artisan.Status != enums.ArtisanStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot reject application with status: %s", artisan.Status))
	}

	if err := s.repo.UpdateStatus(ctx, artisan.ID, enums.ArtisanStatusRejected); err != nil {
		return db.Translate(err, "artisan")
	}
	return nil
}

// requireOwnProfile re-derives the artisan profile from the acting user on
// every call instead of trusting claims carried by the token.
func (s *service) requireOwnProfile(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	artisan, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if typed := pkgerrors.As(db.Translate(err, "artisan")); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user has no artisan profile")
		}
		return nil, db.Translate(err, "artisan")
	}
	return artisan, nil
}
