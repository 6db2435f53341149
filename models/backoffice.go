package models

import "time"

// Offer is a promotional package shown on the public site.
type Offer struct {
	OfferID         string    `json:"id" bson:"offerid"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	DiscountPercent int       `json:"discountPercent" bson:"discountPercent"`
	ValidFrom       string    `json:"validFrom" bson:"validFrom"`
	ValidTo         string    `json:"validTo" bson:"validTo"`
	IsActive        bool      `json:"isActive" bson:"isActive"`
	UsageCount      int       `json:"usageCount" bson:"usageCount"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AttendanceRecord is one staff member's day entry.
type AttendanceRecord struct {
	RecordID  string    `json:"id" bson:"recordid"`
	StaffName string    `json:"staffName" bson:"staffName"`
	Date      string    `json:"date" bson:"date"`
	Status    string    `json:"status" bson:"status"`
	CheckIn   string    `json:"checkIn,omitempty" bson:"checkIn,omitempty"`
	CheckOut  string    `json:"checkOut,omitempty" bson:"checkOut,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type GalleryImage struct {
	ImageID   string    `json:"id" bson:"imageid"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	ThumbURL  string    `json:"thumbUrl" bson:"thumbUrl"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// IdempotencyRecord stores one deduplicated mutating request and, once the
// handler has run, its captured response.
type IdempotencyRecord struct {
	Key         string         `bson:"key"`
	Method      string         `bson:"method"`
	Path        string         `bson:"path"`
	RequestHash string         `bson:"request_hash"`
	Response    map[string]any `bson:"response,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	ExpiresAt   time.Time      `bson:"expires_at"`
}

// PaymentsReport is the aggregated payments dashboard payload.
type PaymentsReport struct {
	From             string           `json:"from,omitempty"`
	To               string           `json:"to,omitempty"`
	TotalRevenue     float64          `json:"totalRevenue"`
	TotalBookings    int              `json:"totalBookings"`
	CashRevenue      float64          `json:"cashRevenue"`
	OnlineRevenue    float64          `json:"onlineRevenue"`
	RevenueByService []ServiceRevenue `json:"revenueByService"`
}

type ServiceRevenue struct {
	ServiceName string  `json:"service" bson:"_id"`
	Bookings    int     `json:"bookings" bson:"bookings"`
	Revenue     float64 `json:"revenue" bson:"revenue"`
}
