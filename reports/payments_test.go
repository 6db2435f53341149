package reports

import (
	"testing"

	"glowdesk/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPaymentsMatch(t *testing.T) {
	m := paymentsMatch("", "")
	if m["status"] != "completed" {
		t.Fatalf("expected completed-only match, got %v", m)
	}
	if _, ok := m["date"]; ok {
		t.Fatal("no date filter expected without a range")
	}

	m = paymentsMatch("2025-01-01", "2025-01-31")
	dateRange, ok := m["date"].(bson.M)
	if !ok {
		t.Fatalf("expected date range, got %v", m["date"])
	}
	if dateRange["$gte"] != "2025-01-01" || dateRange["$lte"] != "2025-01-31" {
		t.Fatalf("unexpected range %v", dateRange)
	}

	m = paymentsMatch("2025-01-01", "")
	dateRange = m["date"].(bson.M)
	if _, ok := dateRange["$lte"]; ok {
		t.Fatal("open-ended range should not set $lte")
	}
}

func TestBuildReportSplitsMethods(t *testing.T) {
	row := facetRow{}
	row.Totals = append(row.Totals, struct {
		Revenue  float64 `bson:"revenue"`
		Bookings int     `bson:"bookings"`
	}{Revenue: 1500, Bookings: 3})
	row.ByMethod = append(row.ByMethod,
		struct {
			Method  string  `bson:"_id"`
			Revenue float64 `bson:"revenue"`
		}{Method: "cash", Revenue: 1000},
		struct {
			Method  string  `bson:"_id"`
			Revenue float64 `bson:"revenue"`
		}{Method: "online", Revenue: 500},
	)
	row.ByService = []models.ServiceRevenue{{ServiceName: "Haircut", Bookings: 3, Revenue: 1500}}

	report := buildReport("", "", row)

	if report.TotalRevenue != 1500 || report.TotalBookings != 3 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.CashRevenue+report.OnlineRevenue != report.TotalRevenue {
		t.Fatalf("cash %v + online %v should equal total %v", report.CashRevenue, report.OnlineRevenue, report.TotalRevenue)
	}
	if len(report.RevenueByService) != 1 || report.RevenueByService[0].ServiceName != "Haircut" {
		t.Fatalf("unexpected service breakdown: %+v", report.RevenueByService)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := buildReport("2025-01-01", "2025-01-31", facetRow{})

	if report.TotalRevenue != 0 || report.TotalBookings != 0 {
		t.Fatalf("empty facet should produce zero totals, got %+v", report)
	}
	if report.RevenueByService == nil {
		t.Fatal("service breakdown should be an empty slice, not nil")
	}
	if report.From != "2025-01-01" || report.To != "2025-01-31" {
		t.Fatalf("range should be echoed back, got %+v", report)
	}
}
