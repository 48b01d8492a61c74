package models

import "strconv"

const (
	CategoryAll            = "All"
	CategoryRestaurant     = "Restaurant"
	CategoryBarRestaurant  = "Bar & Restaurant"
	CategoryCafe           = "Cafe"
	CategorySpaWellness    = "Spa & Wellness"
	CategoryMassageParlour = "Massage Parlour"
	CategoryStreetFood     = "Street Food"
)

// Categories lists every selectable category, "All" first.
var Categories = []string{
	CategoryAll,
	CategoryRestaurant,
	CategoryBarRestaurant,
	CategoryCafe,
	CategorySpaWellness,
	CategoryMassageParlour,
	CategoryStreetFood,
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryMatches applies the category-equivalence rule: Spa & Wellness and
// Massage Parlour match each other, everything else needs exact equality.
func CategoryMatches(filter, category string) bool {
	if filter == "" || filter == CategoryAll || filter == category {
		return true
	}
	if filter == CategorySpaWellness && category == CategoryMassageParlour {
		return true
	}
	if filter == CategoryMassageParlour && category == CategorySpaWellness {
		return true
	}
	return false
}

type Discount struct {
	ID            string `json:"id" bson:"id"`
	VenueID       string `json:"venue_id" bson:"venue_id"`
	Title         string `json:"title" bson:"title"`
	Description   string `json:"description" bson:"description"`
	PercentageOff int    `json:"percentage_off" bson:"percentage_off"`
	ValidFrom     string `json:"valid_from" bson:"valid_from"` // HH:MM
	ValidTo       string `json:"valid_to" bson:"valid_to"`     // HH:MM
	IsActive      bool   `json:"is_active" bson:"is_active"`
}

type VenueLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Address   string  `json:"address" bson:"address"`
}

func (l VenueLocation) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Venue is a discoverable place of business. Venues belong to the query that
// produced them; nothing shares or mutates them afterwards.
type Venue struct {
	ID              string        `json:"id" bson:"_id"`
	Name            string        `json:"name" bson:"name"`
	Description     string        `json:"description" bson:"description"`
	Image           string        `json:"image" bson:"image"`
	Location        VenueLocation `json:"location" bson:"location"`
	Category        string        `json:"category" bson:"category"`
	Rating          float64       `json:"rating" bson:"rating"`
	CurrentDiscount *Discount     `json:"current_discount,omitempty" bson:"current_discount,omitempty"`
	IsActive        bool          `json:"is_active" bson:"is_active"`
}

// Surfaceable is the activity invariant: only active venues with an active
// discount may ever be shown.
func (v Venue) Surfaceable() bool {
	return v.IsActive && v.CurrentDiscount != nil && v.CurrentDiscount.IsActive
}

// Params flattens the venue and its discount into string parameters for the
// details view.
func (v Venue) Params() map[string]string {
	p := map[string]string{
		"id":                  v.ID,
		"name":                v.Name,
		"description":         v.Description,
		"image":               v.Image,
		"address":             v.Location.Address,
		"rating":              strconv.FormatFloat(v.Rating, 'f', -1, 64),
		"category":            v.Category,
		"discountTitle":       "",
		"discountPercentage":  "",
		"discountDescription": "",
		"validFrom":           "",
		"validTo":             "",
		"isDiscountActive":    "false",
	}
	if d := v.CurrentDiscount; d != nil {
		p["discountTitle"] = d.Title
		p["discountPercentage"] = strconv.Itoa(d.PercentageOff)
		p["discountDescription"] = d.Description
		p["validFrom"] = d.ValidFrom
		p["validTo"] = d.ValidTo
		p["isDiscountActive"] = strconv.FormatBool(d.IsActive)
	}
	return p
}
