package products

import (
	"context"

	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for product listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID, params pagination.Params) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
	ReplaceCategories(ctx context.Context, product *models.Product, categories []models.Category) error
	AttachCategory(ctx context.Context, product *models.Product, category *models.Category) error
	DetachCategory(ctx context.Context, product *models.Product, category *models.Category) error
	AppendImageURL(ctx context.Context, id uuid.UUID, url string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListActive(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Categories").
		Where("products.status = ?", enums.ProductStatusActive).
		Order("products.created_at DESC, products.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *filters.CategoryID)
	}
	if filters.Search != "" {
		query = query.Where("products.title ILIKE ?", "%"+filters.Search+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(products.created_at, products.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListByArtisan(ctx context.Context, artisanID uuid.UUID, params pagination.Params) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Categories").
		Where("artisan_id = ?", artisanID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DecrementStock only succeeds when enough stock remains; the returned row
// count is zero when the guard fails.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, id, qty)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id).Error
}

func (r *repository) ReplaceCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	return r.db.WithContext(ctx).
		Model(product).
		Association("Categories").
		Replace(categories)
}

func (r *repository) AttachCategory(ctx context.Context, product *models.Product, category *models.Category) error {
	return r.db.WithContext(ctx).
		Model(product).
		Association("Categories").
		Append(category)
}

func (r *repository) DetachCategory(ctx context.Context, product *models.Product, category *models.Category) error {
	return r.db.WithContext(ctx).
		Model(product).
		Association("Categories").
		Delete(category)
}

func (r *repository) AppendImageURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET image_urls = array_append(image_urls, ?),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, url, id).Error
}
