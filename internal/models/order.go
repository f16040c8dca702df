// order.go

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusReturned   OrderStatus = "Returned"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "COD"
	PaymentCard       PaymentMethod = "Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NetBanking"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentUPI, PaymentNetBanking:
		return true
	}
	return false
}

const DefaultCountry = "India"

type ShippingInfo struct {
	Address string `bson:"address" json:"address" binding:"required"`
	City    string `bson:"city" json:"city" binding:"required"`
	State   string `bson:"state" json:"state" binding:"required"`
	Country string `bson:"country" json:"country"`
	PinCode string `bson:"pinCode" json:"pinCode" binding:"required"`
	PhoneNo string `bson:"phoneNo" json:"phoneNo" binding:"required"`
}

type PaymentInfo struct {
	ID     string        `bson:"id" json:"id" binding:"required"`
	Status string        `bson:"status" json:"status" binding:"required"`
	Method PaymentMethod `bson:"method" json:"method" binding:"required,paymentmethod"`
}

// OrderItem freezes the unit price paid at checkout.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Items         []OrderItem        `bson:"items" json:"items"`
	ShippingInfo  ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	PaymentInfo   PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	ItemsPrice    float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	Discount      float64            `bson:"discount" json:"discount"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	PromoCode     string             `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	OrderStatus   OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	DeliveredAt   *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
