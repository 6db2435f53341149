package customers

import (
	"context"
	"net/http"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/customers
// Read-only directory; every record here is derived from booking history, so
// there are no create or update endpoints.
func GetCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.CustomersCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}
	defer cur.Close(ctx)

	customers := []models.Customer{}
	if err := cur.All(ctx, &customers); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing customers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, customers)
}
