// Package fixtures provides in-memory catalogs for tests. Catalog mirrors
// what goload reads from the model packages, so tests can exercise the
// generator without loading Go packages.
package fixtures

import (
	"github.com/teranos/dtogen/internal/util"
	"github.com/teranos/dtogen/metadata"
	"github.com/teranos/dtogen/shape"
)

const modelPath = "github.com/teranos/dtogen/model/"

// Sample domain identifiers.
const (
	OrderID           shape.TypeID = modelPath + "orders.Order"
	OrderItemID       shape.TypeID = modelPath + "orders.OrderItem"
	DeliveryID        shape.TypeID = modelPath + "orders.Delivery"
	DeliveryAddressID shape.TypeID = modelPath + "orders.DeliveryAddress"
	DeliverySlotID    shape.TypeID = modelPath + "orders.DeliverySlot"
	PaymentID         shape.TypeID = modelPath + "orders.Payment"
	CompanyID         shape.TypeID = modelPath + "corporate.Company"

	CustomerInterfaceID                  shape.TypeID = modelPath + "orders.CustomerInterface"
	CustomerID                           shape.TypeID = modelPath + "customers.Customer"
	CustomerTagID                        shape.TypeID = modelPath + "customers.CustomerTag"
	CustomerCorporateID                  shape.TypeID = modelPath + "corporate.CustomerCorporate"
	SerializedRelationAbstractCustomerID shape.TypeID = modelPath + "corporate.SerializedRelationAbstractCustomer"
	SerializedRelationCustomerID         shape.TypeID = modelPath + "orders.SerializedRelationCustomer"
)

// Field builds a direct, exported variation.
func Field(name string, t metadata.RawType) metadata.Variation {
	return metadata.Variation{Name: name, Access: shape.Direct(), Type: t, Exported: true}
}

// Getter builds an accessor-backed variation.
func Getter(name, accessor string, t metadata.RawType) metadata.Variation {
	return metadata.Variation{Name: name, Access: shape.ViaAccessor(accessor), Type: t, Exported: true}
}

// Groups sets the groups of v.
func Groups(v metadata.Variation, groups ...string) metadata.Variation {
	v.Groups = groups
	return v
}

// Nillable marks v as nillable.
func Nillable(v metadata.Variation) metadata.Variation {
	v.Nillable = true
	return v
}

// Pointer marks v as read through a pointer.
func Pointer(v metadata.Variation) metadata.Variation {
	v.Nillable = true
	v.Pointer = true
	return v
}

// Range sets the version range of v.
func Range(v metadata.Variation, since, until string) metadata.Variation {
	v.Since, v.Until = since, until
	return v
}

// MaxDepth sets the recursion threshold of v.
func MaxDepth(v metadata.Variation, d int) metadata.Variation {
	v.MaxDepth = util.Ptr(d)
	return v
}

// Prop builds a single-variation property.
func Prop(key string, vs ...metadata.Variation) metadata.RawProperty {
	return metadata.RawProperty{SerializedKey: key, Variations: vs}
}

// Class builds a raw class.
func Class(id shape.TypeID, props ...metadata.RawProperty) *metadata.RawClass {
	return &metadata.RawClass{ID: id, Properties: props}
}

var (
	prim    = metadata.TypePrimitive{}
	unknown = metadata.TypeUnknown{}
	date    = metadata.TypeDateTime{}
)

func ref(id shape.TypeID) metadata.TypeRef { return metadata.TypeRef{ID: id} }

func list(t metadata.RawType) metadata.TypeCollection { return metadata.TypeCollection{Elem: t} }

func hash(t metadata.RawType) metadata.TypeCollection {
	return metadata.TypeCollection{Elem: t, Map: true}
}

var public = []string{"Default", "public"}

// Catalog returns the sample domain.
func Catalog() *metadata.Catalog {
	return metadata.NewCatalog(
		Class(OrderID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("number", Groups(Field("Number", prim), public...)),
			Prop("createdAt", Groups(Field("CreatedAt", date), public...)),
			Prop("status", Range(Groups(Field("Status", prim), public...), "1.0", "")),
			Prop("summ", Range(Field("Total", prim), "", "0.9")),
			Prop("totalSumm", Range(Groups(Field("Total", prim), "public"), "1.0", "")),
			Prop("tags", Nillable(Field("Tags", list(ref(CustomerTagID))))),
			Prop("customer", Nillable(Field("Customer", ref(CustomerInterfaceID)))),
			Prop("items", Groups(Nillable(Field("Items", list(ref(OrderItemID)))), public...)),
			Prop("delivery", Pointer(Field("Delivery", ref(DeliveryID)))),
			Prop("payments", Nillable(Field("Payments", hash(ref(PaymentID))))),
			Prop("customFields", Nillable(Field("CustomFields", hash(unknown)))),
			Prop("links", Nillable(Field("Links", list(list(prim))))),
			Prop("raw", Nillable(Field("Raw", unknown))),
			Prop("parent", Pointer(Field("Parent", ref(OrderID)))),
			Prop("managerComment", Groups(Pointer(Getter("managerComment", "ManagerComment", prim)), "admin")),
		),
		Class(OrderItemID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("quantity", Groups(Field("Quantity", prim), public...)),
			Prop("initialPrice", Groups(Field("Price", prim), public...)),
			Prop("properties", Nillable(Field("Properties", hash(prim)))),
			Prop("order", MaxDepth(Pointer(Field("Order", ref(OrderID))), 0)),
		),
		Class(DeliveryID,
			Prop("code", Field("Code", prim)),
			Prop("cost", Field("Cost", prim)),
			Prop("date", Pointer(Field("Date", metadata.TypeDateTime{Format: "2006-01-02"}))),
			Prop("address", Pointer(Field("Address", ref(DeliveryAddressID)))),
			Prop("instructions", Pointer(Field("Instructions", prim))),
			Prop("slots", Pointer(Field("Slots", list(ref(DeliverySlotID))))),
			Prop("extra", Pointer(Field("Extra", hash(prim)))),
		),
		Class(DeliverySlotID,
			Prop("from", Field("From", prim)),
			Prop("to", Field("To", prim)),
		),
		Class(DeliveryAddressID,
			Prop("city", Field("City", prim)),
			Prop("street", Field("Street", prim)),
			Prop("index", Field("Index", prim)),
		),
		Class(PaymentID,
			Prop("type", Field("Type", prim)),
			Prop("amount", Field("Amount", prim)),
			Prop("paidAt", Pointer(Field("PaidAt", date))),
		),
		Class(SerializedRelationCustomerID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("externalId", Groups(Field("ExternalID", prim), public...)),
			Prop("site", Field("Site", prim)),
			Prop("firstName", Groups(Field("FirstName", prim), public...)),
			Prop("email", Groups(Field("Email", prim), "admin")),
		),
		&metadata.RawClass{ID: CustomerInterfaceID, Abstract: true},
		Class(CustomerID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("externalId", Groups(Field("ExternalID", prim), public...)),
			Prop("type", Groups(Getter("Type", "CustomerType", prim), public...)),
			Prop("firstName", Groups(Field("FirstName", prim), public...)),
			Prop("lastName", Groups(Field("LastName", prim), public...)),
			Prop("email", Groups(Field("Email", prim), "Default", "admin")),
			Prop("phones", Nillable(Field("Phones", list(prim)))),
			Prop("createdAt", Field("CreatedAt", metadata.TypeDateTime{Format: "2006-01-02 15:04:05"})),
			Prop("tags", Nillable(Field("Tags", list(ref(CustomerTagID))))),
			Prop("referrer", Groups(Pointer(Field("Referrer", ref(CustomerID))), "admin")),
		),
		Class(CustomerTagID,
			Prop("name", Field("Name", prim)),
			Prop("color", Field("Color", prim)),
			Prop("attached", Field("Attached", prim)),
		),
		Class(CustomerCorporateID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("externalId", Groups(Field("ExternalID", prim), public...)),
			Prop("nickName", Groups(Field("Nickname", prim), public...)),
			Prop("createdAt", Field("CreatedAt", date)),
			Prop("mainCustomerContact", Pointer(Field("MainCustomer", ref(CustomerID)))),
			Prop("companies", Nillable(Field("Companies", list(ref(CompanyID))))),
			Prop("vip", Getter("vip", "IsVip", prim)),
		),
		Class(CompanyID,
			Prop("id", Field("ID", prim)),
			Prop("name", Field("Name", prim)),
			Prop("contacts", Nillable(Field("Contacts", hash(prim)))),
		),
		Class(SerializedRelationAbstractCustomerID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("externalId", Groups(Field("ExternalID", prim), public...)),
			Prop("site", Field("Site", prim)),
			Prop("type", Groups(Field("Type", prim), public...)),
		),
	)
}

// ScenarioOrderID names the reduced order of ScenarioCatalog.
const ScenarioOrderID shape.TypeID = "example.com/shop.Order"

// ScenarioCatalog holds Order{id, createdAt, tags []CustomerTag}. Only id is
// public, so the v1/public request resolves a single field.
func ScenarioCatalog() *metadata.Catalog {
	return metadata.NewCatalog(
		Class(ScenarioOrderID,
			Prop("id", Groups(Field("ID", prim), public...)),
			Prop("createdAt", Field("CreatedAt", date)),
			Prop("tags", Nillable(Field("Tags", list(ref(CustomerTagID))))),
		),
		Class(CustomerTagID,
			Prop("name", Field("Name", prim)),
			Prop("color", Field("Color", prim)),
		),
	)
}

// SelfRefID is a type whose Next field points to itself.
const SelfRefID shape.TypeID = "example.com/list.Node"

// SelfRefCatalog holds Node{value, next *Node, children []*Node}.
func SelfRefCatalog() *metadata.Catalog {
	return metadata.NewCatalog(
		Class(SelfRefID,
			Prop("value", Field("Value", prim)),
			Prop("next", Nillable(Field("Next", ref(SelfRefID)))),
			Prop("children", Nillable(Field("Children", list(ref(SelfRefID))))),
		),
	)
}
