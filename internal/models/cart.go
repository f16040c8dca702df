// cart.go

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem IDs identify a line, independent of the product it holds.
type CartItem struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Cart) ItemIndex(itemID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) ProductIndex(productID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.Product == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) ProductIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.Product)
	}
	return ids
}

// CartLine is a cart line with its product resolved. Product is nil when
// the referenced product no longer exists.
type CartLine struct {
	ID       primitive.ObjectID `json:"id"`
	Product  *Product           `json:"product"`
	Quantity int                `json:"quantity"`
}

type CartDetail struct {
	ID        primitive.ObjectID `json:"id,omitempty"`
	User      primitive.ObjectID `json:"user,omitempty"`
	Items     []CartLine         `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}
