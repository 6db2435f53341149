package bookings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/mq"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allowedStatuses = []string{"pending", "confirmed", "completed", "cancelled"}

func isAllowedStatus(status string) bool {
	for _, s := range allowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type bookingInput struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	Service       string  `json:"service"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
	Notes         string  `json:"notes"`
}

func validateBookingInput(in bookingInput) string {
	if strings.TrimSpace(in.CustomerName) == "" || in.Service == "" || in.Date == "" || in.Time == "" {
		return "Customer name, service, date, and time are required"
	}
	return ""
}

// resolveAmount returns the explicit amount when it is a positive number,
// otherwise the service price.
func resolveAmount(requested, servicePrice float64) float64 {
	if requested > 0 {
		return requested
	}
	return servicePrice
}

// POST /api/bookings
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input bookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateBookingInput(input); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	var svc models.Service
	err := db.ServicesCollection.FindOne(ctx, bson.M{"name": input.Service, "isActive": true}).Decode(&svc)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod != "online" {
		paymentMethod = "cash"
	}

	now := time.Now()
	booking := models.Booking{
		BookingID:     "bk" + utils.GenerateRandomString(14),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		ServiceID:     svc.ServiceID,
		ServiceName:   svc.Name,
		Date:          input.Date,
		Time:          input.Time,
		PaymentMethod: paymentMethod,
		Amount:        resolveAmount(input.Amount, svc.Price),
		Status:        "pending",
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
		log.Printf("Failed to insert booking: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	// Rollup is best-effort; a failure here leaves the booking authoritative.
	if err := syncCustomer(ctx, booking); err != nil {
		log.Printf("Customer sync failed for booking %s: %v", booking.BookingID, err)
	}

	go mq.Emit(r.Context(), "booking-created", models.Index{EntityType: "booking", Method: "POST", EntityId: booking.BookingID})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message":   "Booking created successfully",
		"bookingId": booking.BookingID,
	})
}

// GET /api/bookings
func GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.BookingsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// PATCH /api/bookings
func UpdateBookingStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" || input.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Booking ID and status required")
		return
	}

	// Any member of the fixed set is writable from any state; the admin can
	// always override.
	if !isAllowedStatus(input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	res, err := db.BookingsCollection.UpdateOne(
		ctx,
		bson.M{"bookingid": input.ID},
		bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	go mq.Emit(r.Context(), "booking-status-updated", models.Index{EntityType: "booking", Method: "PATCH", EntityId: input.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Booking status updated"})
}

// DELETE /api/bookings
func DeleteBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Booking ID required")
		return
	}

	res, err := db.BookingsCollection.DeleteOne(ctx, bson.M{"bookingid": input.ID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete booking")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	go mq.Emit(r.Context(), "booking-deleted", models.Index{EntityType: "booking", Method: "DELETE", EntityId: input.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})
}
