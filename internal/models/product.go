// product.go

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryArtefacts         Category = "Artefacts"
	CategoryCulturalHomeDecor Category = "Cultural Home Decor"
	CategoryCorporateGifting  Category = "Corporate Gifting"
	CategoryGiftCard          Category = "Gift Card"
)

var Categories = []Category{
	CategoryArtefacts,
	CategoryCulturalHomeDecor,
	CategoryCorporateGifting,
	CategoryGiftCard,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

const (
	DefaultDeliveryTime   = "6 to 10 days"
	DefaultReturnPolicy   = "10 days easy return"
	DefaultShippingPolicy = "Order above ₹1000 - All India Free Shipping"
	DefaultStock          = 1
)

type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type Dimensions struct {
	Height string `bson:"height,omitempty" json:"height,omitempty"`
	Width  string `bson:"width,omitempty" json:"width,omitempty"`
	Length string `bson:"length,omitempty" json:"length,omitempty"`
	Weight string `bson:"weight,omitempty" json:"weight,omitempty"`
}

type Review struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  int                `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage"`
	DiscountPrice      *float64           `bson:"discountPrice,omitempty" json:"discountPrice,omitempty"`
	Images             []Image            `bson:"images" json:"images"`
	Category           Category           `bson:"category" json:"category"`
	Stock              int                `bson:"stock" json:"stock"`
	Dimensions         Dimensions         `bson:"dimensions" json:"dimensions"`
	Material           string             `bson:"material,omitempty" json:"material,omitempty"`
	DeliveryTime       string             `bson:"deliveryTime" json:"deliveryTime"`
	ReturnPolicy       string             `bson:"returnPolicy" json:"returnPolicy"`
	ShippingPolicy     string             `bson:"shippingPolicy" json:"shippingPolicy"`
	Ratings            float64            `bson:"ratings" json:"ratings"`
	NumOfReviews       int                `bson:"numOfReviews" json:"numOfReviews"`
	Reviews            []Review           `bson:"reviews" json:"reviews"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// ApplyDefaults fills the catalog policy fields left empty by the caller.
func (p *Product) ApplyDefaults() {
	if p.DeliveryTime == "" {
		p.DeliveryTime = DefaultDeliveryTime
	}
	if p.ReturnPolicy == "" {
		p.ReturnPolicy = DefaultReturnPolicy
	}
	if p.ShippingPolicy == "" {
		p.ShippingPolicy = DefaultShippingPolicy
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
}

// ApplyDiscount derives DiscountPrice from Price and DiscountPercentage.
// It must run after every change to either field.
func (p *Product) ApplyDiscount() {
	if p.DiscountPercentage <= 0 {
		p.DiscountPrice = nil
		return
	}
	price := decimal.NewFromFloat(p.Price)
	off := price.Mul(decimal.NewFromFloat(p.DiscountPercentage)).Div(decimal.NewFromInt(100))
	v, _ := price.Sub(off).Round(2).Float64()
	p.DiscountPrice = &v
}

// UnitPrice is the price a buyer pays for one unit right now.
func (p *Product) UnitPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// UpsertReview replaces the reviewer's previous review, if any, and
// recomputes the aggregate rating.
func (p *Product) UpsertReview(r Review) {
	replaced := false
	for i := range p.Reviews {
		if p.Reviews[i].User == r.User {
			p.Reviews[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		p.Reviews = append(p.Reviews, r)
	}

	p.NumOfReviews = len(p.Reviews)
	sum := decimal.Zero
	for _, rv := range p.Reviews {
		sum = sum.Add(decimal.NewFromInt(int64(rv.Rating)))
	}
	p.Ratings, _ = sum.Div(decimal.NewFromInt(int64(p.NumOfReviews))).Round(2).Float64()
}
