package bookings

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func slipSecret() []byte {
	if s := os.Getenv("SLIP_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("glowdesk_slip_secret")
}

// slipPayload returns the signed reference encoded into the slip QR:
// bookingID|date|time|signature.
func slipPayload(bookingID, date, timeOfDay string) string {
	data := fmt.Sprintf("%s|%s|%s", bookingID, date, timeOfDay)
	h := hmac.New(sha256.New, slipSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// verifySlipPayload checks a scanned payload against its signature.
func verifySlipPayload(payload string) bool {
	idx := len(payload) - 1
	for ; idx >= 0; idx-- {
		if payload[idx] == '|' {
			break
		}
	}
	if idx <= 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]
	h := hmac.New(sha256.New, slipSecret())
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// GET /api/bookings/:id/slip
// Returns a PNG QR code the customer can show at the desk.
func BookingSlip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookingID := ps.ByName("id")

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	png, err := qrcode.Encode(slipPayload(booking.BookingID, booking.Date, booking.Time), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline; filename=booking-"+booking.BookingID+".png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
