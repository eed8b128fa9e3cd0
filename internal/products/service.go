package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/artesania-app/artesania-backend/pkg/db"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type artisanLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error)
}

type categoryStore interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Service manages listings for three audiences: shoppers browsing the
// catalog, artisans maintaining their own stock, and image uploads.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	MyProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ProductList, error)
	Update(ctx context.Context, userID, productID uuid.UUID, input UpdateInput) (*models.Product, error)
	UpdateStatus(ctx context.Context, userID, productID uuid.UUID, status enums.ProductStatus) (*models.Product, error)
	IncreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error)
	DecreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error)
	AttachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error
	DetachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error
	UploadImage(ctx context.Context, userID, productID uuid.UUID, data []byte) (string, error)
}

type service struct {
	repo       Repository
	categories categoryStore
	artisans   artisanLookup
	tx         txRunner
	uploads    UploadSettings
}

// NewService builds the products service with the required dependencies.
func NewService(repo Repository, categoryRepo categoryStore, artisanRepo artisanLookup, tx txRunner, uploads UploadSettings) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("categories store required")
	}
	if artisanRepo == nil {
		return nil, fmt.Errorf("artisan lookup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if uploads.Uploader == nil {
		return nil, fmt.Errorf("object uploader required")
	}
	return &service{
		repo:       repo,
		categories: categoryRepo,
		artisans:   artisanRepo,
		tx:         tx,
		uploads:    uploads,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Product, error) {
	artisan, err := s.requireApprovedArtisan(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	compareAt := input.Price
	if input.CompareAtPrice != nil {
		if input.CompareAtPrice.LessThan(input.Price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare-at price cannot be below price")
		}
		compareAt = *input.CompareAtPrice
	}

	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ArtisanID:      artisan.ID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: compareAt,
		Stock:          input.Stock,
		Material:       input.Material,
		Weight:         input.Weight,
		Status:         enums.ProductStatusActive,
		Categories:     categories,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	if product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	products, err := s.repo.ListActive(ctx, params, filters)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return buildProductList(products, params.Limit), nil
}

func (s *service) MyProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ProductList, error) {
	artisan, err := s.requireArtisan(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListByArtisan(ctx, artisan.ID, params)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return buildProductList(products, params.Limit), nil
}

func (s *service) Update(ctx context.Context, userID, productID uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price"] = *input.Price
	}
	if input.CompareAtPrice != nil {
		updates["compare_at_price"] = *input.CompareAtPrice
	}
	if input.Material != nil {
		updates["material"] = *input.Material
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, product.ID, updates); err != nil {
			return nil, db.Translate(err, "product")
		}
	}

	if input.CategoryIDs != nil {
		categories, err := s.resolveCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceCategories(ctx, product, categories); err != nil {
			return nil, db.Translate(err, "category")
		}
	}

	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return updated, nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, productID uuid.UUID, status enums.ProductStatus) (*models.Product, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", status))
	}

	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, product.ID, status); err != nil {
		return nil, db.Translate(err, "product")
	}

	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return updated, nil
}

func (s *service) IncreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementStock(ctx, product.ID, qty); err != nil {
		return nil, db.Translate(err, "product")
	}

	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	return updated, nil
}

func (s *service) DecreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	var updated *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.DecrementStock(ctx, product.ID, qty)
		if err != nil {
			return db.Translate(err, "product")
		}
		if rows == 0 {
			return insufficientStock(product, qty)
		}

		updated, err = repo.FindByID(ctx, product.ID)
		if err != nil {
			return db.Translate(err, "product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AttachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return db.Translate(err, "category")
	}

	if err := s.repo.AttachCategory(ctx, product, category); err != nil {
		return db.Translate(err, "category")
	}
	return nil
}

func (s *service) DetachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return db.Translate(err, "category")
	}

	if err := s.repo.DetachCategory(ctx, product, category); err != nil {
		return db.Translate(err, "category")
	}
	return nil
}

func (s *service) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	unique := dedupeIDs(ids)
	if len(unique) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one category is required")
	}

	categories, err := s.categories.FindByIDs(ctx, unique)
	if err != nil {
		return nil, db.Translate(err, "category")
	}
	if len(categories) != len(unique) {
		missing := missingIDs(unique, categories)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more categories not found").
			WithDetails(map[string]any{"missing_ids": missing})
	}
	return categories, nil
}

// requireOwnedProduct re-derives ownership from storage on every call; the
// caller's token role is never trusted for this decision.
func (s *service) requireOwnedProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	artisan, err := s.requireArtisan(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, db.Translate(err, "product")
	}
	if product.ArtisanID != artisan.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to artisan")
	}
	return product, nil
}

func (s *service) requireArtisan(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	artisan, err := s.artisans.FindByUserID(ctx, userID)
	if err != nil {
		if typed := pkgerrors.As(db.Translate(err, "artisan")); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user has no artisan profile")
		}
		return nil, db.Translate(err, "artisan")
	}
	return artisan, nil
}

func (s *service) requireApprovedArtisan(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	artisan, err := s.requireArtisan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if artisan.Status != enums.ArtisanStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "artisan is not approved")
	}
	return artisan, nil
}

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("Insufficient stock for product '%s'. Available: %d, Requested: %d",
			product.Title, product.Stock, requested))
}

func buildProductList(products []models.Product, limit int) *ProductList {
	page, hasMore := pagination.TrimPage(products, limit)
	list := &ProductList{Products: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uuid.UUID, found []models.Category) []string {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, category := range found {
		present[category.ID] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return missing
}
