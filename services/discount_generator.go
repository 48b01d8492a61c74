package services

import (
	"math/rand"
	"sync"

	"go-happyhour/models"
)

// discountActiveRate is the chance that a generated discount is running.
// Activity is drawn at generation time, not derived from the time window.
const discountActiveRate = 0.85

type discountTemplate struct {
	title       string
	percentage  int
	description string
}

type timeWindow struct {
	from, to string
}

var discountTemplates = []discountTemplate{
	{"Happy Hour Special", 25, "Discounted drinks and appetizers"},
	{"Lunch Deal", 20, "Special pricing on lunch menu"},
	{"Early Bird Special", 30, "Morning discount for early customers"},
	{"Weekend Promotion", 35, "Weekend-only special offers"},
	{"Student Discount", 15, "Special rates for students with ID"},
	{"Local Resident Deal", 40, "Exclusive discount for local residents"},
	{"First-Time Visitor", 50, "Welcome offer for new customers"},
	{"Spa Package Deal", 45, "Combo treatment discounts"},
	{"Coffee & Pastry Combo", 20, "Save on coffee and food combinations"},
	{"Sunset Special", 30, "Sunset hour promotions"},
	{"After Work Special", 25, "Perfect for unwinding after work"},
	{"Date Night Deal", 35, "Special pricing for couples"},
}

var timeWindows = []timeWindow{
	{"09:00", "12:00"},
	{"11:00", "15:00"},
	{"14:00", "17:00"},
	{"17:00", "20:00"},
	{"18:00", "22:00"},
	{"19:00", "23:00"},
	{"16:00", "19:00"}, // classic happy hour
	{"15:00", "18:00"},
}

// DiscountGenerator draws discount records from a fixed template set.
type DiscountGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDiscountGenerator uses rnd for every draw; seed it for replayable output.
func NewDiscountGenerator(rnd *rand.Rand) *DiscountGenerator {
	return &DiscountGenerator{rnd: rnd}
}

// Generate returns a fresh discount for venueID.
func (g *DiscountGenerator) Generate(venueID string) models.Discount {
	g.mu.Lock()
	defer g.mu.Unlock()

	tmpl := discountTemplates[g.rnd.Intn(len(discountTemplates))]
	window := timeWindows[g.rnd.Intn(len(timeWindows))]

	return models.Discount{
		ID:            "discount_" + venueID,
		VenueID:       venueID,
		Title:         tmpl.title,
		Description:   tmpl.description,
		PercentageOff: tmpl.percentage,
		ValidFrom:     window.from,
		ValidTo:       window.to,
		IsActive:      g.rnd.Float64() < discountActiveRate,
	}
}
