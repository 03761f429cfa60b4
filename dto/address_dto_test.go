package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCanonicalSpelling(t *testing.T) {
	in := AddressInput{
		FirstName: "Linh",
		LastName:  "Tran",
		Email:     "linh@example.com",
		Street:    "12 Hang Bac",
		City:      "Hanoi",
		State:     "HN",
		Zipcode:   "100000",
		Country:   "VN",
		Phone:     "0901234567",
	}

	addr, missing := in.Normalize()
	assert.Empty(t, missing)
	assert.Equal(t, "Linh", addr.FirstName)
	assert.Equal(t, "Tran", addr.LastName)
	assert.Equal(t, "100000", addr.Zipcode)
}

func TestNormalizeSnakeCaseAndAliases(t *testing.T) {
	in := AddressInput{
		FirstNameSnake: "Linh",
		LastNameSnake:  "Tran",
		Email:          "linh@example.com",
		AddressLine:    "12 Hang Bac",
		City:           "Hanoi",
		State:          "HN",
		PostalCode:     "100000",
		Country:        "VN",
		PhoneNumber:    "0901234567",
	}

	addr, missing := in.Normalize()
	assert.Empty(t, missing)
	assert.Equal(t, "Linh", addr.FirstName)
	assert.Equal(t, "12 Hang Bac", addr.Street)
	assert.Equal(t, "100000", addr.Zipcode)
	assert.Equal(t, "0901234567", addr.Phone)
}

func TestNormalizeSplitsFullName(t *testing.T) {
	in := AddressInput{
		Name:    "Nguyen Van An",
		Email:   "an@example.com",
		Street:  "1 Le Loi",
		City:    "Hue",
		State:   "TTH",
		Zipcode: "530000",
		Country: "VN",
		Phone:   "0909000111",
	}

	addr, missing := in.Normalize()
	assert.Empty(t, missing)
	assert.Equal(t, "Nguyen", addr.FirstName)
	assert.Equal(t, "Van An", addr.LastName)
}

func TestNormalizeExplicitFieldsWinOverName(t *testing.T) {
	in := AddressInput{
		FirstName: "Linh",
		LastName:  "Tran",
		Name:      "Someone Else",
	}
	addr, _ := in.Normalize()
	assert.Equal(t, "Linh", addr.FirstName)
	assert.Equal(t, "Tran", addr.LastName)
}

func TestNormalizeReportsEveryMissingField(t *testing.T) {
	addr, missing := AddressInput{}.Normalize()
	assert.Equal(t, []string{
		"firstName", "lastName", "email", "street",
		"city", "state", "zipcode", "country", "phone",
	}, missing)
	assert.Zero(t, addr.FirstName)
}

func TestNormalizeSingleWordNameLeavesLastNameMissing(t *testing.T) {
	in := AddressInput{
		Name:    "Madonna",
		Email:   "m@example.com",
		Street:  "1 Rue",
		City:    "Paris",
		State:   "IDF",
		Zipcode: "75001",
		Country: "FR",
		Phone:   "0123",
	}
	_, missing := in.Normalize()
	assert.Equal(t, []string{"lastName"}, missing)
}
