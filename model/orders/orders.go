// Package orders holds the order DTOs of the sample domain.
package orders

import (
	"encoding/json"
	"time"

	"github.com/teranos/dtogen/model/customers"
)

// CustomerInterface is implemented by every customer form an order may carry.
type CustomerInterface interface {
	GetID() int
	CustomerType() string
}

// Order is a customer order.
//
// Total is published as "summ" until 1.0 and as "totalSumm" afterwards.
type Order struct {
	ID        int       `json:"id" serializer:"groups=Default|public"`
	Number    string    `json:"number" serializer:"groups=Default|public"`
	CreatedAt time.Time `json:"createdAt" serializer:"groups=Default|public"`
	Status    string    `json:"status" serializer:"groups=Default|public,since=1.0"`
	Total     float64   `json:"summ" serializer:"until=0.9" serializer.1:"key=totalSumm,groups=public,since=1.0"`

	Tags     []*customers.CustomerTag `json:"tags"`
	Customer CustomerInterface        `json:"customer"`
	Items    []*OrderItem             `json:"items" serializer:"groups=Default|public"`
	Delivery *Delivery                `json:"delivery"`

	Payments     map[string]*Payment `json:"payments"`
	CustomFields map[string]any      `json:"customFields"`
	Links        [][]string          `json:"links"`
	Raw          json.RawMessage     `json:"raw,omitempty"`

	// Parent is the order this one was split from.
	Parent *Order `json:"parent"`

	managerComment string `json:"managerComment" serializer:"getter=ManagerComment,groups=admin"`
}

// ManagerComment returns the internal manager comment.
func (o *Order) ManagerComment() *string {
	if o.managerComment == "" {
		return nil
	}
	return &o.managerComment
}

// SetManagerComment sets the internal manager comment.
func (o *Order) SetManagerComment(c string) { o.managerComment = c }

// OrderItem is one line of an order.
type OrderItem struct {
	ID         int               `json:"id" serializer:"groups=Default|public"`
	Quantity   float64           `json:"quantity" serializer:"groups=Default|public"`
	Price      float64           `json:"initialPrice" serializer:"groups=Default|public"`
	Properties map[string]string `json:"properties"`

	// Order points back to the owning order.
	Order *Order `json:"order" serializer:"maxdepth=0"`
}

// Delivery describes how an order ships.
type Delivery struct {
	Code    string           `json:"code"`
	Cost    float64          `json:"cost"`
	Date    *time.Time       `json:"date" serializer:"format=2006-01-02"`
	Address *DeliveryAddress `json:"address"`

	Instructions *string            `json:"instructions"`
	Slots        *[]DeliverySlot    `json:"slots"`
	Extra        *map[string]string `json:"extra"`
}

// DeliverySlot is a time window offered for delivery.
type DeliverySlot struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeliveryAddress is a postal address.
type DeliveryAddress struct {
	City   string `json:"city"`
	Street string `json:"street"`
	Index  string `json:"index"`
}

// Payment is one payment of an order.
type Payment struct {
	Type   string     `json:"type"`
	Amount float64    `json:"amount"`
	PaidAt *time.Time `json:"paidAt"`
}

// SerializedRelationCustomer is the full relation form of a customer.
type SerializedRelationCustomer struct {
	ID         int    `json:"id" serializer:"groups=Default|public"`
	ExternalID string `json:"externalId" serializer:"groups=Default|public"`
	Site       string `json:"site"`
	FirstName  string `json:"firstName" serializer:"groups=Default|public"`
	Email      string `json:"email" serializer:"groups=admin"`
}

// CustomerType identifies the concrete customer form.
func (c *SerializedRelationCustomer) CustomerType() string { return "customer" }

// GetID returns the customer identifier.
func (c *SerializedRelationCustomer) GetID() int { return c.ID }
