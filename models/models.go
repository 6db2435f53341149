package models

import (
	"time"
)

// Admin is a back-office login. Only the password hash is stored.
type Admin struct {
	AdminID      string    `json:"id" bson:"adminid"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	LastLogin    time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

type Booking struct {
	BookingID     string    `json:"id" bson:"bookingid"`
	CustomerName  string    `json:"customerName" bson:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	ServiceID     string    `json:"serviceId" bson:"serviceid"`
	ServiceName   string    `json:"service" bson:"serviceName"`
	Date          string    `json:"date" bson:"date"`
	Time          string    `json:"time" bson:"time"`
	PaymentMethod string    `json:"paymentMethod" bson:"paymentMethod"`
	Amount        float64   `json:"amount" bson:"amount"`
	Status        string    `json:"status" bson:"status"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Customer is a rollup derived from booking history; it is never written
// directly, only through the booking-create upsert.
type Customer struct {
	CustomerID  string    `json:"id" bson:"customerid"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	TotalVisits int       `json:"totalVisits" bson:"totalVisits"`
	TotalSpent  float64   `json:"totalSpent" bson:"totalSpent"`
	LastVisit   string    `json:"lastVisit" bson:"lastVisit"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type Service struct {
	ServiceID   string    `json:"id" bson:"serviceid"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	Duration    string    `json:"duration" bson:"duration"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Review struct {
	ReviewID    string    `json:"id" bson:"reviewid"`
	ServiceID   string    `json:"serviceId" bson:"serviceid"`
	ServiceName string    `json:"service,omitempty" bson:"serviceName,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment,omitempty" bson:"comment,omitempty"`
	IsApproved  bool      `json:"isApproved" bson:"isApproved"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type ReviewStats struct {
	TotalReviews    int     `json:"totalReviews" bson:"totalReviews"`
	ApprovedReviews int     `json:"approvedReviews" bson:"approvedReviews"`
	PendingReviews  int     `json:"pendingReviews" bson:"pendingReviews"`
	AvgRating       float64 `json:"avgRating" bson:"avgRating"`
}

// Index represents an entity-change event published to redis.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
}
