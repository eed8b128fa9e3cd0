package users

import (
	"context"
	"fmt"

	"github.com/artesania-app/artesania-backend/pkg/db"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
	"github.com/google/uuid"
)

// maxAddressesPerUser bounds the address book so a single account cannot
// grow it without limit.
const maxAddressesPerUser = 10

// Service exposes self-service profile and address operations plus the admin
// user listing.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressView, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressView, error)
	List(ctx context.Context, params pagination.Params) (*UserList, error)
}

type service struct {
	repo Repository
}

// NewService builds the users service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	profile := newUserProfile(user)
	return &profile, nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, db.Translate(err, "user")
	}

	count, err := s.repo.CountAddresses(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "address")
	}
	if count >= maxAddressesPerUser {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("address limit of %d reached", maxAddressesPerUser))
	}

	address := input.toModel(userID)
	created, err := s.repo.CreateAddress(ctx, address)
	if err != nil {
		return nil, db.Translate(err, "address")
	}
	view := newAddressView(created)
	return &view, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "address")
	}

	views := make([]AddressView, 0, len(addresses))
	for i := range addresses {
		views = append(views, newAddressView(&addresses[i]))
	}
	return views, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*UserList, error) {
	users, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.Translate(err, "user")
	}

	page, hasMore := pagination.TrimPage(users, params.Limit)
	list := &UserList{Users: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list, nil
}
