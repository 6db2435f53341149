package reviews

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"glowdesk/db"
	"glowdesk/middleware"
	"glowdesk/models"
	"glowdesk/mq"
	"glowdesk/rdx"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const statsCacheTTL = 2 * time.Minute

// roundRating rounds an average to one decimal place.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// POST /api/reviews
// Public submission; reviews are never auto-approved.
func SubmitReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ServiceID string `json:"serviceId"`
		Name      string `json:"name"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ServiceID == "" || strings.TrimSpace(input.Name) == "" || input.Rating == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Service ID, name, and rating are required")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	// Snapshot the service name so the review stays displayable even if the
	// service is later renamed or removed.
	var svc models.Service
	if err := db.ServicesCollection.FindOne(ctx, bson.M{"serviceid": input.ServiceID}).Decode(&svc); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}

	review := models.Review{
		ReviewID:    "rev" + utils.GenerateRandomString(13),
		ServiceID:   svc.ServiceID,
		ServiceName: svc.Name,
		Name:        strings.TrimSpace(input.Name),
		Rating:      input.Rating,
		Comment:     strings.TrimSpace(input.Comment),
		IsApproved:  false,
		CreatedAt:   time.Now(),
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		log.Printf("Failed to insert review: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit review")
		return
	}

	go mq.Emit(r.Context(), "review-added", models.Index{EntityType: "review", Method: "POST", EntityId: review.ReviewID})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Review submitted successfully"})
}

// listFilter scopes the public listing to approved reviews. A signed-in
// admin sees unapproved ones inline as well.
func listFilter(ctx context.Context, serviceID string) bson.M {
	filter := bson.M{}
	if !middleware.IsAdmin(ctx) {
		filter["isApproved"] = true
	}
	if serviceID != "" {
		filter["serviceid"] = serviceID
	}
	return filter
}

// GET /api/reviews?serviceId=
// Public list; approved reviews only unless an admin session is present.
func GetApprovedReviews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := listFilter(r.Context(), r.URL.Query().Get("serviceId"))

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.ReviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing reviews")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reviews)
}

// GET /api/reviews/admin?serviceId=
// All matching reviews plus stats aggregated in one pass over the same set.
func GetReviewsForAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	serviceID := r.URL.Query().Get("serviceId")
	filter := bson.M{}
	if serviceID != "" {
		filter["serviceid"] = serviceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.ReviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing reviews")
		return
	}

	// Stats come from the same filter in the same request, never the cache,
	// so the numbers always agree with the list below them.
	stats, err := aggregateStats(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate review stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"stats":   stats,
		"reviews": reviews,
	})
}

// GET /api/reviews/stats?serviceId=
// Public summary for the site (average rating badge). Served from a
// short-lived redis cache; the admin view aggregates fresh instead.
func GetReviewStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	serviceID := r.URL.Query().Get("serviceId")
	cacheKey := rdx.KeyReviewStats + "all"
	if serviceID != "" {
		cacheKey = rdx.KeyReviewStats + serviceID
	}
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		var stats models.ReviewStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, stats)
			return
		}
	}

	filter := bson.M{}
	if serviceID != "" {
		filter["serviceid"] = serviceID
	}
	stats, err := aggregateStats(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate review stats")
		return
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := rdx.RdxSet(cacheKey, string(data), statsCacheTTL); err != nil {
			log.Printf("Failed to cache review stats: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// aggregateStats computes review counts and the approved-only average in a
// single pipeline over the matching set.
func aggregateStats(ctx context.Context, filter bson.M) (models.ReviewStats, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$group": bson.M{
			"_id":             nil,
			"totalReviews":    bson.M{"$sum": 1},
			"approvedReviews": bson.M{"$sum": bson.M{"$cond": []any{"$isApproved", 1, 0}}},
			"pendingReviews":  bson.M{"$sum": bson.M{"$cond": []any{"$isApproved", 0, 1}}},
			"avgRating":       bson.M{"$avg": bson.M{"$cond": []any{"$isApproved", "$rating", nil}}},
		}},
	}

	cur, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ReviewStats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalReviews    int      `bson:"totalReviews"`
		ApprovedReviews int      `bson:"approvedReviews"`
		PendingReviews  int      `bson:"pendingReviews"`
		AvgRating       *float64 `bson:"avgRating"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.ReviewStats{}, err
	}

	stats := models.ReviewStats{}
	if len(rows) > 0 {
		stats.TotalReviews = rows[0].TotalReviews
		stats.ApprovedReviews = rows[0].ApprovedReviews
		stats.PendingReviews = rows[0].PendingReviews
		if rows[0].AvgRating != nil {
			stats.AvgRating = roundRating(*rows[0].AvgRating)
		}
	}

	return stats, nil
}

// PATCH /api/reviews/:id
func SetApproval(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reviewID := ps.ByName("id")
	if reviewID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Review ID is required")
		return
	}

	var input struct {
		IsApproved *bool `json:"isApproved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.IsApproved == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "isApproved is required")
		return
	}

	res, err := db.ReviewsCollection.UpdateOne(
		ctx,
		bson.M{"reviewid": reviewID},
		bson.M{"$set": bson.M{"isApproved": *input.IsApproved}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	go mq.Emit(r.Context(), "review-moderated", models.Index{EntityType: "review", Method: "PATCH", EntityId: reviewID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Review updated successfully"})
}
