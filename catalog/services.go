package catalog

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
	"glowdesk/rdx"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activeCacheTTL = 5 * time.Minute

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// GET /api/services
// Active services only; served from the redis cache when warm.
func GetServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(rdx.KeyActiveServices); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	cur, err := db.ServicesCollection.Find(ctx, bson.M{"isActive": true}, newestFirst())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	defer cur.Close(ctx)

	services := []models.Service{}
	if err := cur.All(ctx, &services); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing services")
		return
	}

	if data, err := json.Marshal(services); err == nil {
		if err := rdx.RdxSet(rdx.KeyActiveServices, string(data), activeCacheTTL); err != nil {
			log.Printf("Failed to cache active services: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, services)
}

// GET /api/services/search?q=
func SearchServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	regex := bson.M{"$regex": q, "$options": "i"}
	filter := bson.M{
		"isActive": true,
		"$or": []bson.M{
			{"name": regex},
			{"category": regex},
			{"description": regex},
		},
	}

	cur, err := db.ServicesCollection.Find(ctx, filter, newestFirst())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search services")
		return
	}
	defer cur.Close(ctx)

	services := []models.Service{}
	if err := cur.All(ctx, &services); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing services")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, services)
}

type serviceInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

func validateServiceInput(in serviceInput) string {
	if strings.TrimSpace(in.Name) == "" || in.Price == nil || in.Duration == "" {
		return "Name, price, and duration are required"
	}
	if *in.Price <= 0 {
		return "Price must be greater than zero"
	}
	return ""
}

// POST /api/services
func CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input serviceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateServiceInput(input); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "General"
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now()
	svc := models.Service{
		ServiceID:   "svc" + utils.GenerateRandomString(13),
		Name:        strings.TrimSpace(input.Name),
		Category:    category,
		Price:       *input.Price,
		Duration:    input.Duration,
		Description: strings.TrimSpace(input.Description),
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.ServicesCollection.InsertOne(ctx, svc); err != nil {
		log.Printf("Failed to insert service: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create service")
		return
	}

	go mq.Emit(r.Context(), "service-created", models.Index{EntityType: "service", Method: "POST", EntityId: svc.ServiceID})

	utils.RespondWithJSON(w, http.StatusCreated, svc)
}

// PUT /api/services
// Merges only the supplied fields and always bumps updatedAt.
func UpdateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
		serviceInput
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Service ID required")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if strings.TrimSpace(input.Name) != "" {
		set["name"] = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Category) != "" {
		set["category"] = strings.TrimSpace(input.Category)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price must be greater than zero")
			return
		}
		set["price"] = *input.Price
	}
	if input.Duration != "" {
		set["duration"] = input.Duration
	}
	if input.Description != "" {
		set["description"] = strings.TrimSpace(input.Description)
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	res, err := db.ServicesCollection.UpdateOne(ctx, bson.M{"serviceid": input.ID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update service")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}

	go mq.Emit(r.Context(), "service-updated", models.Index{EntityType: "service", Method: "PUT", EntityId: input.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Service updated"})
}

// PATCH /api/services
func ToggleServiceActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID       string `json:"id"`
		IsActive *bool  `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" || input.IsActive == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Service ID and isActive required")
		return
	}

	res, err := db.ServicesCollection.UpdateOne(
		ctx,
		bson.M{"serviceid": input.ID},
		bson.M{"$set": bson.M{"isActive": *input.IsActive, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update service")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}

	go mq.Emit(r.Context(), "service-toggled", models.Index{EntityType: "service", Method: "PATCH", EntityId: input.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Service updated"})
}

// DELETE /api/services
func DeleteService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Service ID required")
		return
	}

	res, err := db.ServicesCollection.DeleteOne(ctx, bson.M{"serviceid": input.ID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}

	go mq.Emit(r.Context(), "service-deleted", models.Index{EntityType: "service", Method: "DELETE", EntityId: input.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}
