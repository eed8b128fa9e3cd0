package users

import (
	"time"

	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/google/uuid"
)

// AddressInput carries the fields required to register a postal address.
type AddressInput struct {
	Street     string  `json:"street" validate:"required,max=200"`
	Number     string  `json:"number" validate:"required,max=20"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=200"`
	ZipCode    string  `json:"zip_code" validate:"required,max=20"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=100"`
	Country    string  `json:"country" validate:"required,max=100"`
}

func (in AddressInput) toModel(userID uuid.UUID) *models.UserAddress {
	return &models.UserAddress{
		UserID:     userID,
		Street:     in.Street,
		Number:     in.Number,
		Complement: in.Complement,
		ZipCode:    in.ZipCode,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
	}
}

// AddressView is the API shape of a stored address.
type AddressView struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	Complement *string   `json:"complement,omitempty"`
	ZipCode    string    `json:"zip_code"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAddressView(address *models.UserAddress) AddressView {
	return AddressView{
		ID:         address.ID,
		Street:     address.Street,
		Number:     address.Number,
		Complement: address.Complement,
		ZipCode:    address.ZipCode,
		City:       address.City,
		State:      address.State,
		Country:    address.Country,
		CreatedAt:  address.CreatedAt,
	}
}

// UserProfile is the full self-service view including addresses and the
// artisan profile when one exists.
type UserProfile struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           enums.UserRole  `json:"role"`
	IsActive       bool            `json:"is_active"`
	Addresses      []AddressView   `json:"addresses"`
	ArtisanProfile *models.Artisan `json:"artisan_profile,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func newUserProfile(user *models.User) UserProfile {
	addresses := make([]AddressView, 0, len(user.Addresses))
	for i := range user.Addresses {
		addresses = append(addresses, newAddressView(&user.Addresses[i]))
	}
	return UserProfile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		Addresses:      addresses,
		ArtisanProfile: user.ArtisanProfile,
		CreatedAt:      user.CreatedAt,
	}
}

// UserList is a cursor page of users for the admin listing.
type UserList struct {
	Users      []models.User `json:"users"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}
