package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Address is a saved shipping address on the user document. At most one
// address per user has IsDefault set; writes unset the others.
type Address struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Label     string        `bson:"label,omitempty" json:"label,omitempty"`
	Street    string        `bson:"street" json:"street"`
	City      string        `bson:"city" json:"city"`
	State     string        `bson:"state" json:"state"`
	ZipCode   string        `bson:"zipCode" json:"zipCode"`
	Country   string        `bson:"country" json:"country"`
	Phone     string        `bson:"phone" json:"phone"`
	IsDefault bool          `bson:"isDefault" json:"isDefault"`
}

type NotificationPrefs struct {
	OrderEmails bool `bson:"orderEmails" json:"orderEmails"`
	PromoEmails bool `bson:"promoEmails" json:"promoEmails"`
}

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash,omitempty" json:"-"` // never expose
	Role         Role          `bson:"role" json:"role"`
	GoogleID     string        `bson:"googleId,omitempty" json:"-"`
	Avatar       string        `bson:"avatar,omitempty" json:"avatar,omitempty"`

	// Cart maps product id hex to quantity; it lives on the user document.
	Cart      map[string]int  `bson:"cart" json:"cart"`
	Orders    []bson.ObjectID `bson:"orders" json:"orders"`
	Addresses []Address       `bson:"addresses" json:"addresses"`

	IsActive bool `bson:"isActive" json:"isActive"`

	ResetOTPHash      string     `bson:"resetOtpHash,omitempty" json:"-"`
	ResetOTPExpiresAt *time.Time `bson:"resetOtpExpiresAt,omitempty" json:"-"`

	NotificationPrefs NotificationPrefs `bson:"notificationPrefs" json:"notificationPrefs"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RefreshToken struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     bson.ObjectID `bson:"userId"`
	TokenHash  string        `bson:"tokenHash"`
	ExpiresAt  time.Time     `bson:"expiresAt"`
	CreatedAt  time.Time     `bson:"createdAt"`
	RevokedAt  *time.Time    `bson:"revokedAt,omitempty"`
	ReplacedBy *string       `bson:"replacedBy,omitempty"`
}
