// Package corporate holds the corporate-customer DTOs of the sample domain.
package corporate

import (
	"time"

	"github.com/teranos/dtogen/model/customers"
)

// CustomerCorporate is a legal-entity customer.
type CustomerCorporate struct {
	ID           int                 `json:"id" serializer:"groups=Default|public"`
	ExternalID   string              `json:"externalId" serializer:"groups=Default|public"`
	Nickname     string              `json:"nickName" serializer:"groups=Default|public"`
	CreatedAt    time.Time           `json:"createdAt"`
	MainCustomer *customers.Customer `json:"mainCustomerContact"`
	Companies    []*Company          `json:"companies"`

	vip bool `json:"vip" serializer:"getter=IsVip"`
}

// CustomerType identifies the concrete customer form.
func (c *CustomerCorporate) CustomerType() string { return "customer_corporate" }

// GetID returns the customer identifier.
func (c *CustomerCorporate) GetID() int { return c.ID }

// IsVip reports the VIP flag.
func (c *CustomerCorporate) IsVip() bool { return c.vip }

// SetVip sets the VIP flag.
func (c *CustomerCorporate) SetVip(v bool) { c.vip = v }

// Company is one legal entity of a corporate customer.
type Company struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Contacts map[string]string `json:"contacts"`
}

// SerializedRelationAbstractCustomer is the shallow relation form of a
// customer: identifiers only.
type SerializedRelationAbstractCustomer struct {
	ID         int    `json:"id" serializer:"groups=Default|public"`
	ExternalID string `json:"externalId" serializer:"groups=Default|public"`
	Site       string `json:"site"`
	Type       string `json:"type" serializer:"groups=Default|public"`
}

// CustomerType identifies the concrete customer form.
func (c *SerializedRelationAbstractCustomer) CustomerType() string { return c.Type }

// GetID returns the customer identifier.
func (c *SerializedRelationAbstractCustomer) GetID() int { return c.ID }
