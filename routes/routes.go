package routes

import (
	"net/http"

	"glowdesk/attendance"
	"glowdesk/auth"
	"glowdesk/bookings"
	"glowdesk/catalog"
	"glowdesk/customers"
	"glowdesk/gallery"
	"glowdesk/middleware"
	"glowdesk/offers"
	"glowdesk/ratelim"
	"glowdesk/reports"
	"glowdesk/reviews"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/gallerypic/*filepath", http.Dir("static/gallerypic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", auth.Logout)
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", middleware.RequireAdmin(bookings.GetBookings))
	router.POST("/api/bookings",
		middleware.Chain(
			ratelim.RateLimit,
			middleware.RequireAdmin,
			bookings.Idempotent,
		)(bookings.CreateBooking),
	)
	router.PATCH("/api/bookings", middleware.RequireAdmin(bookings.UpdateBookingStatus))
	router.DELETE("/api/bookings", middleware.RequireAdmin(bookings.DeleteBooking))
	router.GET("/api/bookings/:id/slip", middleware.RequireAdmin(bookings.BookingSlip))
}

func AddServiceRoutes(router *httprouter.Router) {
	router.GET("/api/services", catalog.GetServices)
	router.GET("/api/services/search", catalog.SearchServices)
	router.POST("/api/services", middleware.RequireAdmin(catalog.CreateService))
	router.PUT("/api/services", middleware.RequireAdmin(catalog.UpdateService))
	router.PATCH("/api/services", middleware.RequireAdmin(catalog.ToggleServiceActive))
	router.DELETE("/api/services", middleware.RequireAdmin(catalog.DeleteService))
}

func AddReviewRoutes(router *httprouter.Router) {
	router.GET("/api/reviews", middleware.OptionalAuth(reviews.GetApprovedReviews))
	router.GET("/api/reviews/stats", reviews.GetReviewStats)
	router.POST("/api/reviews", ratelim.RateLimit(reviews.SubmitReview))
	router.GET("/api/reviews/admin", middleware.RequireAdmin(reviews.GetReviewsForAdmin))
	router.PATCH("/api/reviews/:id", middleware.RequireAdmin(reviews.SetApproval))
}

func AddCustomerRoutes(router *httprouter.Router) {
	router.GET("/api/customers", middleware.RequireAdmin(customers.GetCustomers))
}

func AddOfferRoutes(router *httprouter.Router) {
	router.GET("/api/offers", offers.GetOffers)
	router.GET("/api/offers/all", middleware.RequireAdmin(offers.GetAllOffers))
	router.POST("/api/offers", middleware.RequireAdmin(offers.CreateOffer))
	router.PUT("/api/offers", middleware.RequireAdmin(offers.UpdateOffer))
	router.DELETE("/api/offers", middleware.RequireAdmin(offers.DeleteOffer))
}

func AddAttendanceRoutes(router *httprouter.Router) {
	router.GET("/api/attendance", middleware.RequireAdmin(attendance.GetAttendance))
	router.POST("/api/attendance", middleware.RequireAdmin(attendance.MarkAttendance))
	router.DELETE("/api/attendance", middleware.RequireAdmin(attendance.DeleteAttendance))
}

func AddReportRoutes(router *httprouter.Router) {
	router.GET("/api/reports/payments", middleware.RequireAdmin(reports.GetPaymentsReport))
	router.GET("/api/reports/payments/pdf", middleware.RequireAdmin(reports.DownloadPaymentsReportPDF))
}

func AddGalleryRoutes(router *httprouter.Router) {
	router.GET("/api/gallery", gallery.GetGallery)
	router.POST("/api/gallery", middleware.RequireAdmin(gallery.UploadGalleryImage))
	router.DELETE("/api/gallery", middleware.RequireAdmin(gallery.DeleteGalleryImage))
}
