package offers

import (
	"context"
	"encoding/json"
	"log"
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

type offerInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DiscountPercent *int   `json:"discountPercent"`
	ValidFrom       string `json:"validFrom"`
	ValidTo         string `json:"validTo"`
	IsActive        *bool  `json:"isActive"`
}

func validateOfferInput(in offerInput) string {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.DiscountPercent == nil {
		return "Title, description, and discount percent are required"
	}
	if *in.DiscountPercent < 1 || *in.DiscountPercent > 99 {
		return "Discount percent must be between 1 and 99"
	}
	return ""
}

// GET /api/offers
// Public; active offers only, newest first.
func GetOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.OffersCollection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve offers")
		return
	}
	defer cur.Close(ctx)

	offers := []models.Offer{}
	if err := cur.All(ctx, &offers); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing offers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, offers)
}

// GET /api/offers/all
// Admin view including inactive offers.
func GetAllOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.OffersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve offers")
		return
	}
	defer cur.Close(ctx)

	offers := []models.Offer{}
	if err := cur.All(ctx, &offers); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing offers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, offers)
}

// POST /api/offers
func CreateOffer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input offerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateOfferInput(input); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now()
	offer := models.Offer{
		OfferID:         "off" + utils.GenerateRandomString(13),
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		DiscountPercent: *input.DiscountPercent,
		ValidFrom:       input.ValidFrom,
		ValidTo:         input.ValidTo,
		IsActive:        isActive,
		UsageCount:      0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := db.OffersCollection.InsertOne(ctx, offer); err != nil {
		log.Printf("Failed to insert offer: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create offer")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, offer)
}

// PUT /api/offers
func UpdateOffer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
		offerInput
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Offer ID required")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if strings.TrimSpace(input.Title) != "" {
		set["title"] = strings.TrimSpace(input.Title)
	}
	if strings.TrimSpace(input.Description) != "" {
		set["description"] = strings.TrimSpace(input.Description)
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 1 || *input.DiscountPercent > 99 {
			utils.RespondWithError(w, http.StatusBadRequest, "Discount percent must be between 1 and 99")
			return
		}
		set["discountPercent"] = *input.DiscountPercent
	}
	if input.ValidFrom != "" {
		set["validFrom"] = input.ValidFrom
	}
	if input.ValidTo != "" {
		set["validTo"] = input.ValidTo
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	res, err := db.OffersCollection.UpdateOne(ctx, bson.M{"offerid": input.ID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update offer")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Offer not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Offer updated"})
}

// DELETE /api/offers
func DeleteOffer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Offer ID required")
		return
	}

	res, err := db.OffersCollection.DeleteOne(ctx, bson.M{"offerid": input.ID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete offer")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Offer not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Offer deleted"})
}
