package reports

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

// Only completed bookings count: the payments dashboard reports money taken,
// not money expected.
func paymentsMatch(from, to string) bson.M {
	match := bson.M{"status": "completed"}
	if from != "" || to != "" {
		dateRange := bson.M{}
		if from != "" {
			dateRange["$gte"] = from
		}
		if to != "" {
			dateRange["$lte"] = to
		}
		match["date"] = dateRange
	}
	return match
}

type facetRow struct {
	Totals []struct {
		Revenue  float64 `bson:"revenue"`
		Bookings int     `bson:"bookings"`
	} `bson:"totals"`
	ByMethod []struct {
		Method  string  `bson:"_id"`
		Revenue float64 `bson:"revenue"`
	} `bson:"byMethod"`
	ByService []models.ServiceRevenue `bson:"byService"`
}

func buildReport(from, to string, row facetRow) models.PaymentsReport {
	report := models.PaymentsReport{
		From:             from,
		To:               to,
		RevenueByService: row.ByService,
	}
	if report.RevenueByService == nil {
		report.RevenueByService = []models.ServiceRevenue{}
	}
	if len(row.Totals) > 0 {
		report.TotalRevenue = row.Totals[0].Revenue
		report.TotalBookings = row.Totals[0].Bookings
	}
	for _, m := range row.ByMethod {
		switch m.Method {
		case "cash":
			report.CashRevenue = m.Revenue
		case "online":
			report.OnlineRevenue = m.Revenue
		}
	}
	return report
}

func aggregatePayments(ctx context.Context, from, to string) (models.PaymentsReport, error) {
	pipeline := []bson.M{
		{"$match": paymentsMatch(from, to)},
		{"$facet": bson.M{
			"totals": []bson.M{
				{"$group": bson.M{
					"_id":      nil,
					"revenue":  bson.M{"$sum": "$amount"},
					"bookings": bson.M{"$sum": 1},
				}},
			},
			"byMethod": []bson.M{
				{"$group": bson.M{
					"_id":     "$paymentMethod",
					"revenue": bson.M{"$sum": "$amount"},
				}},
			},
			"byService": []bson.M{
				{"$group": bson.M{
					"_id":      "$serviceName",
					"bookings": bson.M{"$sum": 1},
					"revenue":  bson.M{"$sum": "$amount"},
				}},
				{"$sort": bson.M{"revenue": -1}},
			},
		}},
	}

	cur, err := db.BookingsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PaymentsReport{}, err
	}
	defer cur.Close(ctx)

	var rows []facetRow
	if err := cur.All(ctx, &rows); err != nil {
		return models.PaymentsReport{}, err
	}

	var row facetRow
	if len(rows) > 0 {
		row = rows[0]
	}
	return buildReport(from, to, row), nil
}

// GET /api/reports/payments?from=&to=
func GetPaymentsReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	report, err := aggregatePayments(ctx, from, to)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate payments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}
