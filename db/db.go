package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	AdminsCollection      *mongo.Collection
	BookingsCollection    *mongo.Collection
	ServicesCollection    *mongo.Collection
	CustomersCollection   *mongo.Collection
	ReviewsCollection     *mongo.Collection
	OffersCollection      *mongo.Collection
	AttendanceCollection  *mongo.Collection
	GalleryCollection     *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	AdminsCollection = Client.Database("salondb").Collection("admins")
	BookingsCollection = Client.Database("salondb").Collection("bookings")
	ServicesCollection = Client.Database("salondb").Collection("services")
	CustomersCollection = Client.Database("salondb").Collection("customers")
	ReviewsCollection = Client.Database("salondb").Collection("reviews")
	OffersCollection = Client.Database("salondb").Collection("offers")
	AttendanceCollection = Client.Database("salondb").Collection("attendance")
	GalleryCollection = Client.Database("salondb").Collection("gallery")
	IdempotencyCollection = Client.Database("salondb").Collection("idempotency")
}
