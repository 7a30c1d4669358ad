// Package customers holds the individual-customer DTOs of the sample domain.
package customers

import "time"

// Customer is an individual customer.
type Customer struct {
	ID         int            `json:"id" serializer:"groups=Default|public"`
	ExternalID string         `json:"externalId" serializer:"groups=Default|public"`
	Type       string         `json:"type" serializer:"getter=CustomerType,groups=Default|public"`
	FirstName  string         `json:"firstName" serializer:"groups=Default|public"`
	LastName   string         `json:"lastName" serializer:"groups=Default|public"`
	Email      string         `json:"email" serializer:"groups=Default|admin"`
	Phones     []string       `json:"phones"`
	CreatedAt  time.Time      `json:"createdAt" serializer:"format=2006-01-02 15:04:05"`
	Tags       []*CustomerTag `json:"tags"`

	// Referrer points back into the customer graph.
	Referrer *Customer `json:"referrer" serializer:"groups=admin"`
}

// CustomerType identifies the concrete customer form.
func (c *Customer) CustomerType() string { return "customer" }

// GetID returns the customer identifier.
func (c *Customer) GetID() int { return c.ID }

// CustomerTag labels a customer. Only its name is serialized.
type CustomerTag struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Attached bool   `json:"attached"`
}
