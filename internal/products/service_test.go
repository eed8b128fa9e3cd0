package products

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductsRepo struct {
	byID          map[uuid.UUID]*models.Product
	created       *models.Product
	updates       map[string]any
	statusSet     enums.ProductStatus
	decrementOK   bool
	decrements    []int
	increments    []int
	imageURLs     []string
	activeList    []models.Product
	artisanList   []models.Product
	replacedCats  []models.Category
	attachedCats  []uuid.UUID
	detachedCats  []uuid.UUID
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{byID: map[uuid.UUID]*models.Product{}, decrementOK: true}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.created = product
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) ListActive(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, error) {
	return s.activeList, nil
}

func (s *stubProductsRepo) ListByArtisan(ctx context.Context, artisanID uuid.UUID, params pagination.Params) ([]models.Product, error) {
	return s.artisanList, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubProductsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error {
	s.statusSet = status
	if product, ok := s.byID[id]; ok {
		product.Status = status
	}
	return nil
}

func (s *stubProductsRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	if !s.decrementOK {
		return 0, nil
	}
	s.decrements = append(s.decrements, qty)
	if product, ok := s.byID[id]; ok {
		product.Stock -= qty
	}
	return 1, nil
}

func (s *stubProductsRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	s.increments = append(s.increments, qty)
	if product, ok := s.byID[id]; ok {
		product.Stock += qty
	}
	return nil
}

func (s *stubProductsRepo) ReplaceCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	s.replacedCats = categories
	return nil
}

func (s *stubProductsRepo) AttachCategory(ctx context.Context, product *models.Product, category *models.Category) error {
	s.attachedCats = append(s.attachedCats, category.ID)
	return nil
}

func (s *stubProductsRepo) DetachCategory(ctx context.Context, product *models.Product, category *models.Category) error {
	s.detachedCats = append(s.detachedCats, category.ID)
	return nil
}

func (s *stubProductsRepo) AppendImageURL(ctx context.Context, id uuid.UUID, url string) error {
	s.imageURLs = append(s.imageURLs, url)
	return nil
}

type stubCategoryStore struct {
	byID map[uuid.UUID]*models.Category
}

func newStubCategoryStore(categories ...*models.Category) *stubCategoryStore {
	store := &stubCategoryStore{byID: map[uuid.UUID]*models.Category{}}
	for _, category := range categories {
		store.byID[category.ID] = category
	}
	return store
}

func (s *stubCategoryStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, id := range ids {
		if category, ok := s.byID[id]; ok {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (s *stubCategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if category, ok := s.byID[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubArtisanLookup struct {
	byUserID map[uuid.UUID]*models.Artisan
}

func (s *stubArtisanLookup) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	if artisan, ok := s.byUserID[userID]; ok {
		return artisan, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubUploader struct {
	lastKey         string
	lastContentType string
	err             error
}

func (s *stubUploader) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastKey = key
	s.lastContentType = contentType
	return "https://storage.googleapis.com/test-bucket/" + key, nil
}

type fixture struct {
	svc      Service
	repo     *stubProductsRepo
	uploader *stubUploader
	userID   uuid.UUID
	artisan  *models.Artisan
}

func newFixture(t *testing.T, categories ...*models.Category) *fixture {
	t.Helper()
	userID := uuid.New()
	artisan := &models.Artisan{ID: uuid.New(), UserID: userID, Status: enums.ArtisanStatusApproved}
	repo := newStubProductsRepo()
	uploader := &stubUploader{}

	svc, err := NewService(
		repo,
		newStubCategoryStore(categories...),
		&stubArtisanLookup{byUserID: map[uuid.UUID]*models.Artisan{userID: artisan}},
		stubTxRunner{},
		UploadSettings{Uploader: uploader, Prefix: "products", MaxBytes: 5 << 20},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, repo: repo, uploader: uploader, userID: userID, artisan: artisan}
}

func pngPayload() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
}

func TestCreateDefaultsCompareAtPrice(t *testing.T) {
	category := &models.Category{ID: uuid.New(), Name: "Ceramics"}
	f := newFixture(t, category)

	product, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Title:       "Barro negro vase",
		Price:       decimal.NewFromFloat(49.90),
		Stock:       5,
		CategoryIDs: []uuid.UUID{category.ID},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !product.CompareAtPrice.Equal(product.Price) {
		t.Fatalf("compare-at should default to price, got %s", product.CompareAtPrice)
	}
	if product.ArtisanID != f.artisan.ID {
		t.Fatal("product not bound to artisan")
	}
	if product.Status != enums.ProductStatusActive {
		t.Fatalf("expected active status, got %s", product.Status)
	}
}

func TestCreateUnknownCategory(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Title:       "Vase",
		Price:       decimal.NewFromInt(10),
		CategoryIDs: []uuid.UUID{missing},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	ids, _ := details["missing_ids"].([]string)
	if len(ids) != 1 || ids[0] != missing.String() {
		t.Fatalf("unexpected missing ids %v", details["missing_ids"])
	}
}

func TestCreateRequiresApprovedArtisan(t *testing.T) {
	f := newFixture(t)
	f.artisan.Status = enums.ArtisanStatusPending

	_, err := f.svc.Create(context.Background(), f.userID, CreateInput{
		Title:       "Vase",
		Price:       decimal.NewFromInt(10),
		CategoryIDs: []uuid.UUID{uuid.New()},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateForeignProductForbidden(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: uuid.New(), Title: "Not mine"}
	f.repo.byID[product.ID] = product

	title := "Hijacked"
	_, err := f.svc.Update(context.Background(), f.userID, product.ID, UpdateInput{Title: &title})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign product, got %v", err)
	}
}

func TestDecreaseStockInsufficient(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: f.artisan.ID, Title: "Alebrije", Stock: 2}
	f.repo.byID[product.ID] = product
	f.repo.decrementOK = false

	_, err := f.svc.DecreaseStock(context.Background(), f.userID, product.ID, 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "Insufficient stock for product 'Alebrije'. Available: 2, Requested: 5"
	if typed.Message() != want {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDecreaseStockSuccess(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: f.artisan.ID, Stock: 10}
	f.repo.byID[product.ID] = product

	updated, err := f.svc.DecreaseStock(context.Background(), f.userID, product.ID, 3)
	if err != nil {
		t.Fatalf("DecreaseStock returned error: %v", err)
	}
	if updated.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", updated.Stock)
	}
}

func TestGetHidesInactive(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), Status: enums.ProductStatusArchived}
	f.repo.byID[product.ID] = product

	_, err := f.svc.Get(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("archived product must be invisible, got %v", err)
	}
}

func TestUploadImagePNG(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: f.artisan.ID}
	f.repo.byID[product.ID] = product

	url, err := f.svc.UploadImage(context.Background(), f.userID, product.ID, pngPayload())
	if err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}
	if f.uploader.lastContentType != "image/png" {
		t.Fatalf("unexpected content type %s", f.uploader.lastContentType)
	}
	wantPrefix := "products/product-" + product.ID.String() + "/"
	if !strings.HasPrefix(f.uploader.lastKey, wantPrefix) {
		t.Fatalf("unexpected key %s", f.uploader.lastKey)
	}
	if !strings.HasSuffix(f.uploader.lastKey, ".png") {
		t.Fatalf("expected png extension, got %s", f.uploader.lastKey)
	}
	if len(f.repo.imageURLs) != 1 || f.repo.imageURLs[0] != url {
		t.Fatalf("url not appended to product: %v", f.repo.imageURLs)
	}
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: f.artisan.ID}
	f.repo.byID[product.ID] = product

	_, err := f.svc.UploadImage(context.Background(), f.userID, product.ID, []byte("%PDF-1.4 not an image"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadImageRejectsOversized(t *testing.T) {
	f := newFixture(t)
	product := &models.Product{ID: uuid.New(), ArtisanID: f.artisan.ID}
	f.repo.byID[product.ID] = product

	payload := append(pngPayload(), make([]byte, 6<<20)...)
	_, err := f.svc.UploadImage(context.Background(), f.userID, product.ID, payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized payload, got %v", err)
	}
}
