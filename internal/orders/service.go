package orders

import (
	"context"
	"fmt"

	"github.com/artesania-app/artesania-backend/pkg/db"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/artesania-app/artesania-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type artisanLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error)
}

// Service covers the customer order lifecycle plus the artisan sales feed
// and the admin status override.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error)
	ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	Cancel(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Sales(ctx context.Context, userID uuid.UUID, params pagination.Params) (*SalesList, error)
}

type service struct {
	repo     Repository
	artisans artisanLookup
	tx       txRunner
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, artisanRepo artisanLookup, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if artisanRepo == nil {
		return nil, fmt.Errorf("artisan lookup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, artisans: artisanRepo, tx: tx}, nil
}

// Create places an order in one transaction: every stock decrement uses a
// conditional update, so two concurrent checkouts can never oversell.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	quantities, productIDs, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}

	address, err := s.repo.FindAddress(ctx, input.AddressID)
	if err != nil {
		return nil, db.Translate(err, "address")
	}
	if address.UserID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		products, err := repo.FindProductsByIDs(ctx, productIDs)
		if err != nil {
			return db.Translate(err, "product")
		}
		byID := make(map[uuid.UUID]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		if len(byID) != len(productIDs) {
			missing := make([]string, 0)
			for _, id := range productIDs {
				if _, ok := byID[id]; !ok {
					missing = append(missing, id.String())
				}
			}
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more products not found").
				WithDetails(map[string]any{"missing_ids": missing})
		}

		items := make([]models.OrderItem, 0, len(productIDs))
		subtotal := decimal.Zero
		for _, id := range productIDs {
			product := byID[id]
			qty := quantities[id]

			if product.Status != enums.ProductStatusActive {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Product '%s' is not available", product.Title))
			}
			if product.Stock < qty {
				return insufficientStock(product, qty)
			}

			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				ArtisanID: product.ArtisanID,
				Quantity:  qty,
				Price:     product.Price,
			})
		}

		order = &models.Order{
			CustomerID:      customerID,
			Status:          enums.OrderStatusAwaitingPayment,
			TotalAmount:     subtotal,
			ShippingFee:     decimal.Zero,
			ShippingAddress: snapshotAddress(address),
			Items:           items,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return db.Translate(err, "order")
		}

		for _, id := range productIDs {
			rows, err := repo.DecrementStock(ctx, id, quantities[id])
			if err != nil {
				return db.Translate(err, "product")
			}
			if rows == 0 {
				// A concurrent checkout consumed the stock after our read.
				return insufficientStock(byID[id], quantities[id])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireOrderAccess(order, actorID, actorRole); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	orders, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, db.Translate(err, "order")
	}

	page, hasMore := pagination.TrimPage(orders, params.Limit)
	list := &OrderList{Orders: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list, nil
}

// Cancel restores every decremented unit in the same transaction that flips
// the status, so a cancelled order is always stock-neutral.
func (s *service) Cancel(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireOrderAccess(order, actorID, actorRole); err != nil {
		return nil, err
	}
	if !order.Status.IsCancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("Cannot cancel order with status: %s", order.Status))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, item := range order.Items {
			if err := repo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return db.Translate(err, "product")
			}
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return db.Translate(err, "order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusCancelled
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	if status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use the cancel operation to cancel an order")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled || order.Status == enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cannot change status of a %s order", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, db.Translate(err, "order")
	}
	order.Status = status
	return order, nil
}

func (s *service) Sales(ctx context.Context, userID uuid.UUID, params pagination.Params) (*SalesList, error) {
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

	items, err := s.repo.ListSalesByArtisan(ctx, artisan.ID, params)
	if err != nil {
		return nil, db.Translate(err, "order")
	}

	page, hasMore := pagination.TrimPage(items, params.Limit)
	list := &SalesList{Items: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, db.Translate(err, "order")
	}
	return order, nil
}

func requireOrderAccess(order *models.Order, actorID uuid.UUID, actorRole enums.UserRole) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actorRole == enums.UserRoleAdmin {
		return nil
	}
	if order.CustomerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return nil
}

// mergeItems collapses duplicate product lines and preserves first-seen order.
func mergeItems(items []ItemInput) (map[uuid.UUID]int, []uuid.UUID, error) {
	if len(items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	quantities := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if _, ok := quantities[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}
	return quantities, order, nil
}

func snapshotAddress(address *models.UserAddress) types.AddressSnapshot {
	return types.AddressSnapshot{
		Street:     address.Street,
		Number:     address.Number,
		Complement: address.Complement,
		ZipCode:    address.ZipCode,
		City:       address.City,
		State:      address.State,
		Country:    address.Country,
	}
}

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("Insufficient stock for product '%s'. Available: %d, Requested: %d",
			product.Title, product.Stock, requested))
}
