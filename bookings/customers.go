package bookings

import (
	"context"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// syncCustomer folds a new booking into the denormalized customer rollup.
// Matching is by email and/or phone, whichever the booking carries. The
// increment is a single atomic upsert so concurrent bookings for the same
// customer never lose a visit.
func syncCustomer(ctx context.Context, booking models.Booking) error {
	filter := rollupFilter(booking)

	// No contact details: nothing to match on, always a fresh record.
	if len(filter) == 0 {
		_, err := db.CustomersCollection.InsertOne(ctx, models.Customer{
			CustomerID:  "cst" + utils.GenerateRandomString(13),
			Name:        booking.CustomerName,
			TotalVisits: 1,
			TotalSpent:  booking.Amount,
			LastVisit:   booking.Date,
			CreatedAt:   time.Now(),
		})
		return err
	}

	_, err := db.CustomersCollection.UpdateOne(ctx, filter, rollupUpdate(booking), options.Update().SetUpsert(true))
	return err
}

// rollupFilter matches the customer record by whichever contact details the
// booking carries, so repeat bookings land on one record.
func rollupFilter(booking models.Booking) bson.M {
	filter := bson.M{}
	if booking.CustomerEmail != "" {
		filter["email"] = booking.CustomerEmail
	}
	if booking.CustomerPhone != "" {
		filter["phone"] = booking.CustomerPhone
	}
	return filter
}

// rollupUpdate builds the upsert document for one booking: every booking adds
// exactly one visit and its amount, and identity fields are written only when
// the upsert creates the record.
func rollupUpdate(booking models.Booking) bson.M {
	return bson.M{
		"$inc": bson.M{
			"totalVisits": 1,
			"totalSpent":  booking.Amount,
		},
		"$set": bson.M{
			"lastVisit": booking.Date,
		},
		"$setOnInsert": bson.M{
			"customerid": "cst" + utils.GenerateRandomString(13),
			"name":       booking.CustomerName,
			"email":      booking.CustomerEmail,
			"phone":      booking.CustomerPhone,
			"createdAt":  time.Now(),
		},
	}
}
