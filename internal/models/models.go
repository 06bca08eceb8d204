package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant-pos/internal/money"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ActiveStatuses are the lifecycle states in which an order still binds its
// table: not yet completed or cancelled.
var ActiveStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemPreparing, ItemReady, ItemServed:
		return true
	}
	return false
}

type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeout  OrderType = "takeout"
	OrderDelivery OrderType = "delivery"
)

const (
	RoleAdmin   = "admin"
	RoleServer  = "server"
	RoleCounter = "counter"
	RoleKitchen = "kitchen"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `gorm:"not null"         json:"role"`
	IsActive     bool      `gorm:"default:true"     json:"is_active"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID       uuid.UUID `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"not null"   json:"name"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
}

type Product struct {
	ID              uuid.UUID   `gorm:"primaryKey" json:"id"`
	Name            string      `gorm:"not null"   json:"name"`
	Description     string      `json:"description,omitempty"`
	Price           money.Cents `gorm:"not null"   json:"price"`
	IsAvailable     bool        `gorm:"default:true" json:"is_available"`
	PreparationTime int         `json:"preparation_time"`
	CategoryID      uuid.UUID   `gorm:"index"      json:"category_id"`
}

type DiningTable struct {
	ID              uuid.UUID `gorm:"primaryKey" json:"id"`
	TableNumber     string    `gorm:"uniqueIndex;not null" json:"table_number"`
	SeatingCapacity int       `gorm:"not null"   json:"seating_capacity"`
	Location        string    `json:"location,omitempty"`
	IsOccupied      bool      `gorm:"default:false" json:"is_occupied"`
}

func (DiningTable) TableName() string { return "dining_tables" }

type Order struct {
	ID           uuid.UUID   `gorm:"primaryKey" json:"id"`
	OrderNumber  string      `gorm:"uniqueIndex;not null" json:"order_number"`
	OrderType    OrderType   `gorm:"not null"   json:"order_type"`
	TableID      *uuid.UUID  `gorm:"index"      json:"table_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	Status       OrderStatus `gorm:"not null"   json:"status"`
	TotalAmount  money.Cents `json:"total_amount"`
	Notes        string      `json:"notes,omitempty"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID                  uuid.UUID   `gorm:"primaryKey" json:"id"`
	OrderID             uuid.UUID   `gorm:"index;not null" json:"order_id"`
	ProductID           uuid.UUID   `gorm:"not null"   json:"product_id"`
	ProductName         string      `json:"product_name"`
	Quantity            int         `gorm:"not null"   json:"quantity"`
	UnitPrice           money.Cents `gorm:"not null"   json:"unit_price"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	Status              ItemStatus  `gorm:"default:pending" json:"status"`
}

type Payment struct {
	ID        uuid.UUID   `gorm:"primaryKey" json:"id"`
	OrderID   uuid.UUID   `gorm:"index;not null" json:"order_id"`
	Amount    money.Cents `gorm:"not null"   json:"amount"`
	Method    string      `gorm:"not null"   json:"method"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
