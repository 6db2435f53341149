package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// GET /api/reports/payments/pdf?from=&to=
// Same numbers as the JSON report, rendered for download.
func DownloadPaymentsReportPDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	report, err := aggregatePayments(ctx, from, to)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate payments")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payments Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	rangeLabel := "All time"
	if from != "" || to != "" {
		rangeLabel = fmt.Sprintf("%s to %s", orDash(from), orDash(to))
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", rangeLabel))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Completed bookings: %d", report.TotalBookings))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total revenue: %.2f", report.TotalRevenue))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Cash: %.2f    Online: %.2f", report.CashRevenue, report.OnlineRevenue))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Revenue by service")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, s := range report.RevenueByService {
		pdf.Cell(0, 7, fmt.Sprintf("%s  -  %d bookings  -  %.2f", s.ServiceName, s.Bookings, s.Revenue))
		pdf.Ln(7)
	}
	if len(report.RevenueByService) == 0 {
		pdf.Cell(0, 7, "No completed bookings in this period")
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payments-report.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
