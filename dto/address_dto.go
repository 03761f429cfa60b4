package dto

import (
	"strings"

	"github.com/princinho/storefront-backend/models"
)

// AddressInput accepts every field spelling the clients have historically
// sent for a shipping address. Normalize maps it onto the one canonical
// models.OrderAddress and reports exactly which logical fields are missing.
type AddressInput struct {
	FirstName      string `json:"firstName"`
	FirstNameSnake string `json:"first_name"`
	Name           string `json:"name"` // split into first/last when no explicit fields

	LastName      string `json:"lastName"`
	LastNameSnake string `json:"last_name"`

	Email string `json:"email"`

	Street      string `json:"street"`
	AddressLine string `json:"address"`

	City  string `json:"city"`
	State string `json:"state"`

	Zipcode      string `json:"zipcode"`
	ZipCodeCamel string `json:"zipCode"`
	ZipCodeSnake string `json:"zip_code"`
	PostalCode   string `json:"postalCode"`

	Country string `json:"country"`

	Phone       string `json:"phone"`
	PhoneNumber string `json:"phoneNumber"`
}

// Normalize resolves the accepted spellings into a canonical address. The
// second return value lists the canonical names of every missing required
// field; the address is only usable when that list is empty.
func (in AddressInput) Normalize() (models.OrderAddress, []string) {
	first := firstNonEmpty(in.FirstName, in.FirstNameSnake)
	last := firstNonEmpty(in.LastName, in.LastNameSnake)

	if first == "" && in.Name != "" {
		parts := strings.Fields(in.Name)
		if len(parts) > 0 {
			first = parts[0]
			if last == "" && len(parts) > 1 {
				last = strings.Join(parts[1:], " ")
			}
		}
	}

	addr := models.OrderAddress{
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Email:     strings.TrimSpace(in.Email),
		Street:    strings.TrimSpace(firstNonEmpty(in.Street, in.AddressLine)),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Zipcode:   strings.TrimSpace(firstNonEmpty(in.Zipcode, in.ZipCodeCamel, in.ZipCodeSnake, in.PostalCode)),
		Country:   strings.TrimSpace(in.Country),
		Phone:     strings.TrimSpace(firstNonEmpty(in.Phone, in.PhoneNumber)),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"firstName", addr.FirstName},
		{"lastName", addr.LastName},
		{"email", addr.Email},
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"zipcode", addr.Zipcode},
		{"country", addr.Country},
		{"phone", addr.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	return addr, missing
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// CreateAddressDTO is a saved address on the user profile.
type CreateAddressDTO struct {
	Label     string `json:"label"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

type UpdateAddressDTO struct {
	Label     *string `json:"label"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zipCode"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"isDefault"`
}
