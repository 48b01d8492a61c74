package services

import (
	"context"
	"fmt"

	"go-happyhour/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// FallbackStore supplies the venue set served when the place source fails.
type FallbackStore interface {
	Venues(ctx context.Context) ([]models.Venue, error)
}

func fallbackDiscount(venueID, title, description string, pct int, from, to string, active bool) *models.Discount {
	return &models.Discount{
		ID:            "discount_" + venueID,
		VenueID:       venueID,
		Title:         title,
		Description:   description,
		PercentageOff: pct,
		ValidFrom:     from,
		ValidTo:       to,
		IsActive:      active,
	}
}

// StaticFallbackVenues returns a fresh copy of the built-in fallback set.
// Some entries are inactive on purpose; readers filter them.
func StaticFallbackVenues() []models.Venue {
	return []models.Venue{
		{
			ID:              "business-1",
			Name:            "Sunset Rooftop Bar",
			Description:     "Rooftop cocktails and small plates with a view over the bay",
			Image:           "https://images.pexels.com/photos/274192/pexels-photo-274192.jpeg",
			Location:        models.VenueLocation{Latitude: 12.9276, Longitude: 100.8771, Address: "123 Beach Road, Central Pattaya, Bang Lamung District, Chonburi 20150, Thailand"},
			Category:        models.CategoryBarRestaurant,
			Rating:          4.6,
			CurrentDiscount: fallbackDiscount("business-1", "Happy Hour Special", "Discounted drinks and appetizers", 25, "16:00", "19:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-2",
			Name:            "Bean Counter Cafe",
			Description:     "Specialty coffee house with locally-sourced beans and homemade treats",
			Image:           "https://images.pexels.com/photos/302899/pexels-photo-302899.jpeg",
			Location:        models.VenueLocation{Latitude: 13.7279, Longitude: 100.5241, Address: "456 Silom Road, Bangkok, Thailand"},
			Category:        models.CategoryCafe,
			Rating:          4.4,
			CurrentDiscount: fallbackDiscount("business-2", "Coffee & Pastry Combo", "Save on coffee and food combinations", 20, "09:00", "12:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-3",
			Name:            "Lotus Spa & Wellness",
			Description:     "Tranquil wellness center with professional therapists and premium amenities",
			Image:           "https://images.pexels.com/photos/3757942/pexels-photo-3757942.jpeg",
			Location:        models.VenueLocation{Latitude: 13.7445, Longitude: 100.5582, Address: "789 Sukhumvit Road, Bangkok, Thailand"},
			Category:        models.CategorySpaWellness,
			Rating:          4.8,
			CurrentDiscount: fallbackDiscount("business-3", "Spa Package Deal", "Combo treatment discounts", 45, "14:00", "17:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-4",
			Name:            "Corner Kitchen",
			Description:     "Contemporary dining with innovative dishes and locally-sourced ingredients",
			Image:           "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg",
			Location:        models.VenueLocation{Latitude: 40.7411, Longitude: -73.9897, Address: "101 Broadway, New York, USA"},
			Category:        models.CategoryRestaurant,
			Rating:          4.2,
			CurrentDiscount: fallbackDiscount("business-4", "Lunch Deal", "Special pricing on lunch menu", 20, "11:00", "15:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-5",
			Name:            "Night Market Noodles",
			Description:     "Popular food stall known for delicious, affordable local specialties",
			Image:           "https://images.pexels.com/photos/1199957/pexels-photo-1199957.jpeg",
			Location:        models.VenueLocation{Latitude: 13.7367, Longitude: 100.5604, Address: "234 Sukhumvit Road, Bangkok, Thailand"},
			Category:        models.CategoryStreetFood,
			Rating:          4.5,
			CurrentDiscount: fallbackDiscount("business-5", "After Work Special", "Perfect for unwinding after work", 25, "17:00", "20:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-6",
			Name:            "Sabai Massage Studio",
			Description:     "Therapeutic massage studio specializing in wellness and relaxation",
			Image:           "https://images.pexels.com/photos/3865676/pexels-photo-3865676.jpeg",
			Location:        models.VenueLocation{Latitude: 12.9352, Longitude: 100.8889, Address: "567 Second Road, North Pattaya, Bang Lamung District, Chonburi 20150, Thailand"},
			Category:        models.CategoryMassageParlour,
			Rating:          4.3,
			CurrentDiscount: fallbackDiscount("business-6", "First-Time Visitor", "Welcome offer for new customers", 50, "15:00", "18:00", true),
			IsActive:        true,
		},
		{
			ID:              "business-7",
			Name:            "Old Town Tavern",
			Description:     "Vibrant atmosphere perfect for drinks and dining with friends",
			Image:           "https://images.pexels.com/photos/941861/pexels-photo-941861.jpeg",
			Location:        models.VenueLocation{Latitude: 51.5115, Longitude: -0.1197, Address: "890 High Street, London, UK"},
			Category:        models.CategoryBarRestaurant,
			Rating:          4.0,
			CurrentDiscount: fallbackDiscount("business-7", "Sunset Special", "Sunset hour promotions", 30, "18:00", "22:00", false),
			IsActive:        true,
		},
		{
			ID:              "business-8",
			Name:            "Closed Bistro",
			Description:     "Fine dining establishment offering an unforgettable gastronomic journey",
			Image:           "https://images.pexels.com/photos/262978/pexels-photo-262978.jpeg",
			Location:        models.VenueLocation{Latitude: 48.8566, Longitude: 2.3522, Address: "321 Rue de Rivoli, Paris, France"},
			Category:        models.CategoryRestaurant,
			Rating:          3.9,
			CurrentDiscount: fallbackDiscount("business-8", "Date Night Deal", "Special pricing for couples", 35, "19:00", "23:00", true),
			IsActive:        false,
		},
	}
}

// StaticFallbackStore serves StaticFallbackVenues.
type StaticFallbackStore struct{}

func (StaticFallbackStore) Venues(context.Context) ([]models.Venue, error) {
	return StaticFallbackVenues(), nil
}

// MongoFallbackStore reads the fallback set from a MongoDB collection,
// seeding it with the built-in set when the collection is empty.
type MongoFallbackStore struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

// NewMongoFallbackStore connects to uri and prepares the fallback_venues
// collection of database.
func NewMongoFallbackStore(ctx context.Context, uri, database string, logger *zap.SugaredLogger) (*MongoFallbackStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	logger.Infow("connected to MongoDB", "database", database)

	store := &MongoFallbackStore{
		collection: client.Database(database).Collection("fallback_venues"),
		logger:     logger,
	}
	if err := store.seed(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func (s *MongoFallbackStore) seed(ctx context.Context) error {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count fallback venues: %w", err)
	}
	if count > 0 {
		return nil
	}

	venues := StaticFallbackVenues()
	docs := make([]any, 0, len(venues))
	for _, v := range venues {
		docs = append(docs, v)
	}
	result, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to seed fallback venues: %w", err)
	}
	s.logger.Infow("seeded fallback venues", "count", len(result.InsertedIDs))
	return nil
}

// Venues returns the stored set filtered to surfaceable entries at query
// time, so stored inactive rows never leave the store.
func (s *MongoFallbackStore) Venues(ctx context.Context) ([]models.Venue, error) {
	filter := bson.M{
		"is_active":                  true,
		"current_discount.is_active": true,
	}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback venues: %w", err)
	}
	defer cursor.Close(ctx)

	var venues []models.Venue
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, fmt.Errorf("failed to decode fallback venues: %w", err)
	}
	return venues, nil
}

// Close disconnects the underlying client.
func (s *MongoFallbackStore) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}
