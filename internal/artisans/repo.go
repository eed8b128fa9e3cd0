package artisans

import (
	"context"

	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for artisan profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, artisan *models.Artisan) (*models.Artisan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error)
	ListByStatus(ctx context.Context, status enums.ArtisanStatus, params pagination.Params) ([]models.Artisan, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ArtisanStatus) error
	TopProducts(ctx context.Context, artisanID uuid.UUID, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context, artisanID uuid.UUID) (int64, error)
	SalesStats(ctx context.Context, artisanID uuid.UUID) (*SalesStats, error)
	RatingStats(ctx context.Context, artisanID uuid.UUID) (*RatingStats, error)
}

// SalesStats is the raw aggregation backing the dashboard.
type SalesStats struct {
	ItemsSold        int64
	Revenue          decimal.Decimal
	PendingItemCount int64
}

// RatingStats aggregates review data across an artisan's products.
type RatingStats struct {
	AvgRating   float64
	ReviewCount int64
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an artisans repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, artisan *models.Artisan) (*models.Artisan, error) {
	if err := r.db.WithContext(ctx).Create(artisan).Error; err != nil {
		return nil, err
	}
	return artisan, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	var artisan models.Artisan
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&artisan).Error
	if err != nil {
		return nil, err
	}
	return &artisan, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	var artisan models.Artisan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&artisan).Error
	if err != nil {
		return nil, err
	}
	return &artisan, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.ArtisanStatus, params pagination.Params) ([]models.Artisan, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var artisans []models.Artisan
	if err := query.Find(&artisans).Error; err != nil {
		return nil, err
	}
	return artisans, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Artisan{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ArtisanStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Artisan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) TopProducts(ctx context.Context, artisanID uuid.UUID, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("artisan_id = ? AND status = ?", artisanID, enums.ProductStatusActive).
		Order("avg_rating DESC, review_count DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CountProducts(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("artisan_id = ?", artisanID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) RatingStats(ctx context.Context, artisanID uuid.UUID) (*RatingStats, error) {
	var row RatingStats
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(AVG(avg_rating), 0) AS avg_rating, COALESCE(SUM(review_count), 0) AS review_count").
		Where("artisan_id = ?", artisanID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SalesStats(ctx context.Context, artisanID uuid.UUID) (*SalesStats, error) {
	var row struct {
		ItemsSold int64
		Revenue   decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("COALESCE(SUM(order_items.quantity), 0) AS items_sold, COALESCE(SUM(order_items.price * order_items.quantity), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.artisan_id = ? AND orders.status IN ?", artisanID,
			[]enums.OrderStatus{enums.OrderStatusShipped, enums.OrderStatusDelivered}).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	var pending int64
	err = r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.artisan_id = ? AND orders.status IN ?", artisanID,
			[]enums.OrderStatus{enums.OrderStatusAwaitingPayment, enums.OrderStatusProcessing}).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}

	return &SalesStats{
		ItemsSold:        row.ItemsSold,
		Revenue:          row.Revenue,
		PendingItemCount: pending,
	}, nil
}
