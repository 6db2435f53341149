package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allowedStatuses = []string{"present", "absent", "half-day", "leave"}

func isAllowedStatus(status string) bool {
	for _, s := range allowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// GET /api/attendance?date=
func GetAttendance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if date := r.URL.Query().Get("date"); date != "" {
		if !isValidDate(date) {
			utils.RespondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
			return
		}
		filter["date"] = date
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "staffName", Value: 1}})
	cur, err := db.AttendanceCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve attendance")
		return
	}
	defer cur.Close(ctx)

	records := []models.AttendanceRecord{}
	if err := cur.All(ctx, &records); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing attendance")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, records)
}

// POST /api/attendance
// Upserts the staff member's record for the day, so re-marking replaces the
// earlier entry instead of duplicating it.
func MarkAttendance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		StaffName string `json:"staffName"`
		Date      string `json:"date"`
		Status    string `json:"status"`
		CheckIn   string `json:"checkIn"`
		CheckOut  string `json:"checkOut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if strings.TrimSpace(input.StaffName) == "" || input.Date == "" || input.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Staff name, date, and status are required")
		return
	}
	if !isValidDate(input.Date) {
		utils.RespondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}
	if !isAllowedStatus(input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid attendance status")
		return
	}

	staffName := strings.TrimSpace(input.StaffName)
	update := bson.M{
		"$set": bson.M{
			"status":   input.Status,
			"checkIn":  input.CheckIn,
			"checkOut": input.CheckOut,
		},
		"$setOnInsert": bson.M{
			"recordid":  "att" + utils.GenerateRandomString(13),
			"staffName": staffName,
			"date":      input.Date,
			"createdAt": time.Now(),
		},
	}

	_, err := db.AttendanceCollection.UpdateOne(
		ctx,
		bson.M{"staffName": staffName, "date": input.Date},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record attendance")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Attendance recorded"})
}

// DELETE /api/attendance
func DeleteAttendance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Record ID required")
		return
	}

	res, err := db.AttendanceCollection.DeleteOne(ctx, bson.M{"recordid": input.ID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Record not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}
