// user.go

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email" json:"email"`
	Mobile        string               `bson:"mobile" json:"mobile"`
	IsVerified    bool                 `bson:"isVerified" json:"isVerified"`
	SavedProducts []primitive.ObjectID `bson:"savedProducts" json:"savedProducts"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

// HasSaved reports whether productID is in the user's saved list.
func (u *User) HasSaved(productID primitive.ObjectID) bool {
	for _, id := range u.SavedProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// Admin passwords are stored as bcrypt hashes and never leave the process.
type Admin struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Mobile     string             `bson:"mobile" json:"mobile"`
	Password   string             `bson:"password" json:"-"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	SuperAdmin bool               `bson:"superAdmin" json:"superAdmin"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Expired reports whether more than validity has elapsed since the code was issued.
func (o *OTP) Expired(now time.Time, validity time.Duration) bool {
	return now.Sub(o.CreatedAt) > validity
}
