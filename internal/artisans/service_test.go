package artisans

import (
	"context"
	"testing"

	"github.com/artesania-app/artesania-backend/internal/users"
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

type stubArtisansRepo struct {
	byID          map[uuid.UUID]*models.Artisan
	byUserID      map[uuid.UUID]*models.Artisan
	created       *models.Artisan
	statusUpdates map[uuid.UUID]enums.ArtisanStatus
	topProducts   []models.Product
	productCount  int64
	stats         *SalesStats
	ratings       *RatingStats
	pending       []models.Artisan
}

func newStubArtisansRepo() *stubArtisansRepo {
	return &stubArtisansRepo{
		byID:          map[uuid.UUID]*models.Artisan{},
		byUserID:      map[uuid.UUID]*models.Artisan{},
		statusUpdates: map[uuid.UUID]enums.ArtisanStatus{},
	}
}

func (s *stubArtisansRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubArtisansRepo) Create(ctx context.Context, artisan *models.Artisan) (*models.Artisan, error) {
	if artisan.ID == uuid.Nil {
		artisan.ID = uuid.New()
	}
	s.created = artisan
	return artisan, nil
}

func (s *stubArtisansRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	if artisan, ok := s.byID[id]; ok {
		return artisan, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubArtisansRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Artisan, error) {
	if artisan, ok := s.byUserID[userID]; ok {
		return artisan, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubArtisansRepo) ListByStatus(ctx context.Context, status enums.ArtisanStatus, params pagination.Params) ([]models.Artisan, error) {
	return s.pending, nil
}

func (s *stubArtisansRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if artisan, ok := s.byID[id]; ok {
		if name, set := updates["store_name"].(string); set {
			artisan.StoreName = name
		}
	}
	return nil
}

func (s *stubArtisansRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ArtisanStatus) error {
	s.statusUpdates[id] = status
	return nil
}

func (s *stubArtisansRepo) TopProducts(ctx context.Context, artisanID uuid.UUID, limit int) ([]models.Product, error) {
	return s.topProducts, nil
}

func (s *stubArtisansRepo) CountProducts(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	return s.productCount, nil
}

func (s *stubArtisansRepo) SalesStats(ctx context.Context, artisanID uuid.UUID) (*SalesStats, error) {
	if s.stats == nil {
		return &SalesStats{Revenue: decimal.Zero}, nil
	}
	return s.stats, nil
}

func (s *stubArtisansRepo) RatingStats(ctx context.Context, artisanID uuid.UUID) (*RatingStats, error) {
	if s.ratings == nil {
		return &RatingStats{}, nil
	}
	return s.ratings, nil
}

type stubUserRepo struct {
	users        map[uuid.UUID]*models.User
	addressCount int64
	roleUpdates  map[uuid.UUID]enums.UserRole
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}, roleUpdates: map[uuid.UUID]enums.UserRole{}}
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) UpdateRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	s.roleUpdates[userID] = role
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, params pagination.Params) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) CreateAddress(ctx context.Context, address *models.UserAddress) (*models.UserAddress, error) {
	panic("not implemented")
}

func (s *stubUserRepo) FindAddress(ctx context.Context, addressID uuid.UUID) (*models.UserAddress, error) {
	panic("not implemented")
}

func (s *stubUserRepo) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error) {
	panic("not implemented")
}

func (s *stubUserRepo) CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.addressCount, nil
}

func newTestService(t *testing.T, repo Repository, userRepo users.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, userRepo, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestApplyCreatesPendingProfile(t *testing.T) {
	userID := uuid.New()
	userRepo := newStubUserRepo()
	userRepo.users[userID] = &models.User{ID: userID, Role: enums.UserRoleCustomer}
	userRepo.addressCount = 1
	repo := newStubArtisansRepo()
	svc := newTestService(t, repo, userRepo)

	artisan, err := svc.Apply(context.Background(), userID, ApplyInput{
		StoreName:         "Barro Negro",
		Identification:    "ID-123",
		ProofOfAddressURL: "https://example.com/proof.pdf",
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if artisan.Status != enums.ArtisanStatusPending {
		t.Fatalf("expected pending status, got %s", artisan.Status)
	}
	if artisan.UserID != userID {
		t.Fatal("profile not bound to applicant")
	}
}

func TestApplyRejectsExistingArtisan(t *testing.T) {
	userID := uuid.New()
	userRepo := newStubUserRepo()
	userRepo.users[userID] = &models.User{ID: userID, Role: enums.UserRoleArtisan}
	userRepo.addressCount = 1
	svc := newTestService(t, newStubArtisansRepo(), userRepo)

	_, err := svc.Apply(context.Background(), userID, ApplyInput{StoreName: "x", Identification: "y", ProofOfAddressURL: "https://e.com/p"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for existing artisan, got %v", err)
	}
}

func TestApplyRequiresAddress(t *testing.T) {
	userID := uuid.New()
	userRepo := newStubUserRepo()
	userRepo.users[userID] = &models.User{ID: userID, Role: enums.UserRoleCustomer}
	svc := newTestService(t, newStubArtisansRepo(), userRepo)

	_, err := svc.Apply(context.Background(), userID, ApplyInput{StoreName: "x", Identification: "y", ProofOfAddressURL: "https://e.com/p"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without address, got %v", err)
	}
}

func TestApproveSetsRoleAndStatusTogether(t *testing.T) {
	userID := uuid.New()
	artisanID := uuid.New()
	repo := newStubArtisansRepo()
	repo.byID[artisanID] = &models.Artisan{ID: artisanID, UserID: userID, Status: enums.ArtisanStatusPending}
	userRepo := newStubUserRepo()
	svc := newTestService(t, repo, userRepo)

	if err := svc.Approve(context.Background(), artisanID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if repo.statusUpdates[artisanID] != enums.ArtisanStatusApproved {
		t.Fatal("artisan status not approved")
	}
	if userRepo.roleUpdates[userID] != enums.UserRoleArtisan {
		t.Fatal("user role not promoted")
	}
}

func TestApproveRejectsNonPending(t *testing.T) {
	artisanID := uuid.New()
	repo := newStubArtisansRepo()
	repo.byID[artisanID] = &models.Artisan{ID: artisanID, Status: enums.ArtisanStatusApproved}
	svc := newTestService(t, repo, newStubUserRepo())

	err := svc.Approve(context.Background(), artisanID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRejectPendingApplication(t *testing.T) {
	artisanID := uuid.New()
	repo := newStubArtisansRepo()
	repo.byID[artisanID] = &models.Artisan{ID: artisanID, Status: enums.ArtisanStatusPending}
	svc := newTestService(t, repo, newStubUserRepo())

	if err := svc.Reject(context.Background(), artisanID); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if repo.statusUpdates[artisanID] != enums.ArtisanStatusRejected {
		t.Fatal("artisan status not rejected")
	}
}

func TestStorefrontHidesUnapproved(t *testing.T) {
	artisanID := uuid.New()
	repo := newStubArtisansRepo()
	repo.byID[artisanID] = &models.Artisan{ID: artisanID, Status: enums.ArtisanStatusPending}
	svc := newTestService(t, repo, newStubUserRepo())

	_, err := svc.GetStorefront(context.Background(), artisanID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("pending storefront must be invisible, got %v", err)
	}
}

func TestDashboardRequiresProfile(t *testing.T) {
	svc := newTestService(t, newStubArtisansRepo(), newStubUserRepo())

	_, err := svc.GetDashboard(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden without profile, got %v", err)
	}
}

func TestDashboardAggregates(t *testing.T) {
	userID := uuid.New()
	artisanID := uuid.New()
	repo := newStubArtisansRepo()
	repo.byUserID[userID] = &models.Artisan{
		ID:        artisanID,
		UserID:    userID,
		StoreName: "Barro Negro",
		Status:    enums.ArtisanStatusApproved,
	}
	repo.productCount = 4
	repo.stats = &SalesStats{ItemsSold: 12, Revenue: decimal.NewFromInt(360), PendingItemCount: 2}
	repo.ratings = &RatingStats{AvgRating: 4.25, ReviewCount: 31}
	svc := newTestService(t, repo, newStubUserRepo())

	dash, err := svc.GetDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetDashboard returned error: %v", err)
	}
	if dash.StoreName != "Barro Negro" || dash.Status != enums.ArtisanStatusApproved {
		t.Fatalf("unexpected store identity %+v", dash)
	}
	if dash.ProductCount != 4 || dash.ItemsSold != 12 || dash.PendingItemCount != 2 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
	if dash.AvgRating != 4.25 || dash.ReviewCount != 31 {
		t.Fatalf("unexpected rating aggregates %+v", dash)
	}
	if !dash.Revenue.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("unexpected revenue %s", dash.Revenue)
	}
}
