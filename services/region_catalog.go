package services

import "go-happyhour/models"

// Pool keys shared by every venue catalog.
const (
	PoolRestaurants = "restaurants"
	PoolBars        = "bars"
	PoolCafes       = "cafes"
	PoolSpas        = "spas"
)

// DefaultRegion is returned by Lookup when no box contains the coordinate.
var DefaultRegion = models.Region{Name: models.DefaultRegionName, Country: "Unknown", Timezone: "UTC"}

var regions = []models.Region{
	{Name: "New York", Country: "USA", Timezone: "America/New_York", MinLat: 40.4774, MaxLat: 40.9176, MinLng: -74.2591, MaxLng: -73.7004},
	{Name: "Los Angeles", Country: "USA", Timezone: "America/Los_Angeles", MinLat: 33.7037, MaxLat: 34.3373, MinLng: -118.6681, MaxLng: -118.1553},
	{Name: "London", Country: "UK", Timezone: "Europe/London", MinLat: 51.2868, MaxLat: 51.6918, MinLng: -0.5103, MaxLng: 0.3340},
	{Name: "Paris", Country: "France", Timezone: "Europe/Paris", MinLat: 48.8155, MaxLat: 48.9021, MinLng: 2.2241, MaxLng: 2.4699},
	{Name: "Tokyo", Country: "Japan", Timezone: "Asia/Tokyo", MinLat: 35.5322, MaxLat: 35.8986, MinLng: 139.3431, MaxLng: 139.9194},
	{Name: "Sydney", Country: "Australia", Timezone: "Australia/Sydney", MinLat: -34.1692, MaxLat: -33.5781, MinLng: 150.5023, MaxLng: 151.3430},
	{Name: "Bangkok", Country: "Thailand", Timezone: "Asia/Bangkok", MinLat: 13.4980, MaxLat: 14.0990, MinLng: 100.3273, MaxLng: 100.9319},
	{Name: "Pattaya", Country: "Thailand", Timezone: "Asia/Bangkok", SubRegion: "Chonburi", MinLat: 12.8000, MaxLat: 13.0000, MinLng: 100.8000, MaxLng: 101.0000},
	{Name: "Singapore", Country: "Singapore", Timezone: "Asia/Singapore", MinLat: 1.1304, MaxLat: 1.4784, MinLng: 103.6920, MaxLng: 104.0120},
	{Name: "Dubai", Country: "UAE", Timezone: "Asia/Dubai", MinLat: 24.7136, MaxLat: 25.4052, MinLng: 54.8896, MaxLng: 55.5136},
	{Name: "Berlin", Country: "Germany", Timezone: "Europe/Berlin", MinLat: 52.3382, MaxLat: 52.6755, MinLng: 13.0883, MaxLng: 13.7611},
}

var venueCatalogs = map[string]map[string][]string{
	"New York": {
		PoolRestaurants: {"The Smith", "Katz's Delicatessen", "Joe's Pizza", "Shake Shack", "Blue Hill"},
		PoolBars:        {"Please Don't Tell", "Death & Co", "Employees Only", "Angel's Share", "Attaboy"},
		PoolCafes:       {"Blue Bottle Coffee", "Stumptown Coffee", "Joe Coffee", "Irving Farm", "Gregorys Coffee"},
		PoolSpas:        {"Aire Ancient Baths", "The Spa at Mandarin Oriental", "Great Jones Spa", "Bliss Spa"},
	},
	"Los Angeles": {
		PoolRestaurants: {"Guelaguetza", "Night + Market", "Republique", "Bestia", "Providence"},
		PoolBars:        {"The Varnish", "Seven Grand", "Harvard & Stone", "No Vacancy", "Clifton's"},
		PoolCafes:       {"Intelligentsia Coffee", "Blue Bottle Coffee", "Verve Coffee", "Alfred Coffee", "Go Get Em Tiger"},
		PoolSpas:        {"The Spa at Beverly Hills Hotel", "Burke Williams", "Tomoko Spa", "The NOW"},
	},
	"London": {
		PoolRestaurants: {"Dishoom", "Sketch", "Duck & Waffle", "Hawksmoor", "The Ivy"},
		PoolBars:        {"Nightjar", "Connaught Bar", "American Bar", "Zuma Bar", "Callooh Callay"},
		PoolCafes:       {"Monmouth Coffee", "Workshop Coffee", "Ozone Coffee", "Prufrock Coffee", "Fernandez & Wells"},
		PoolSpas:        {"ESPA at Corinthia", "Akasha Holistic Wellbeing", "The Ned Spa", "Cowshed Spa"},
	},
	"Tokyo": {
		PoolRestaurants: {"Sukiyabashi Jiro", "Narisawa", "Den", "Florilège", "L'Effervescence"},
		PoolBars:        {"Bar High Five", "Tender Bar", "Bar Benfiddich", "Cocktail Works", "Bar Trench"},
		PoolCafes:       {"Blue Seal Coffee", "Streamer Coffee", "Fuglen Tokyo", "Little Nap Coffee", "Onibus Coffee"},
		PoolSpas:        {"Aman Spa Tokyo", "The Ritz-Carlton Spa", "Mandarin Oriental Spa", "Conrad Tokyo Spa"},
	},
	"Paris": {
		PoolRestaurants: {"L'Ami Jean", "Le Comptoir du Relais", "Breizh Café", "L'As du Fallafel", "Pierre Hermé"},
		PoolBars:        {"Hemingway Bar", "Little Red Door", "Candelaria", "Le Mary Celeste", "Experimental Cocktail Club"},
		PoolCafes:       {"Café de Flore", "Les Deux Abeilles", "Boot Café", "Telescope Café", "Loustic"},
		PoolSpas:        {"La Mer Spa", "Spa My Blend by Clarins", "Four Seasons Spa", "Mandarin Oriental Spa"},
	},
	"Sydney": {
		PoolRestaurants: {"Quay", "Bennelong", "Tetsuya's", "Momofuku Seiobo", "Rockpool Bar & Grill"},
		PoolBars:        {"Baxter Inn", "Eau de Vie", "Palmer & Co", "The Baxter Inn", "Maybe Sammy"},
		PoolCafes:       {"Single O", "Reuben Hills", "The Grounds of Alexandria", "Campos Coffee", "Toby's Estate"},
		PoolSpas:        {"Aurora Spa & Pool", "Endota Spa", "The Langham Spa", "Shangri La Spa"},
	},
	"Bangkok": {
		PoolRestaurants: {"Gaggan Progressive Indian", "Sorn Southern Thai", "Le Du Modern Thai", "Paste Bangkok", "Blue Elephant Restaurant"},
		PoolBars:        {"Sky Bar Bangkok", "Rooftop Lounge 64", "The Deck by Arun", "Vertigo Moon Bar", "Above Eleven"},
		PoolCafes:       {"Dean & DeLuca", "Roast Coffee & Eatery", "Gallery Drip Coffee", "Rocket Coffeebar", "Casa Lapin"},
		PoolSpas:        {"Health Land Spa", "Let's Relax Spa", "Divana Virtue Spa", "Asia Herb Association", "Wat Pho Thai Massage"},
	},
	"Pattaya": {
		PoolRestaurants: {"Mantra Restaurant & Bar", "The Glass House", "Horizon Rooftop Restaurant", "Moom Aroi Restaurant", "Surf Kitchen"},
		PoolBars:        {"Hilton Rooftop Bar", "Sky Gallery Pattaya", "Mixx Discotheque", "Insomnia Discotheque", "Red Sky Rooftop Bar"},
		PoolCafes:       {"Coffee Club Pattaya", "Dean & DeLuca Central Festival", "Starbucks Beach Road", "Amazon Café", "True Coffee"},
		PoolSpas:        {"Let's Relax Spa Pattaya", "Health Land Spa & Massage", "Oasis Spa Pattaya", "Asia Herb Association", "Sabai Sabai Thai Massage"},
	},
	models.DefaultRegionName: {
		PoolRestaurants: {"Local Bistro", "City Grill", "Corner Kitchen", "Main Street Eatery", "Downtown Dining"},
		PoolBars:        {"The Local Pub", "City Bar & Grill", "Corner Tavern", "Downtown Lounge", "Neighborhood Bar"},
		PoolCafes:       {"Local Coffee Co.", "City Roasters", "Corner Cafe", "Main Street Coffee", "Downtown Brew"},
		PoolSpas:        {"City Spa & Wellness", "Local Massage Studio", "Downtown Wellness Center", "Corner Spa", "Neighborhood Wellness"},
	},
}

var streetCatalogs = map[string][]string{
	"New York":    {"Broadway", "Madison Ave", "Park Ave", "Fifth Ave", "Wall Street", "Houston St"},
	"Los Angeles": {"Sunset Blvd", "Hollywood Blvd", "Melrose Ave", "Santa Monica Blvd", "Wilshire Blvd"},
	"London":      {"Oxford Street", "Regent Street", "Bond Street", "Piccadilly", "King's Road", "High Street"},
	"Paris":       {"Champs-Élysées", "Rue de Rivoli", "Boulevard Saint-Germain", "Rue du Faubourg", "Avenue Montaigne"},
	"Tokyo":       {"Shibuya", "Ginza", "Harajuku", "Shinjuku", "Roppongi", "Akasaka"},
	"Sydney":      {"George Street", "Pitt Street", "Elizabeth Street", "Castlereagh Street", "York Street"},
	"Bangkok":     {"Silom Road", "Sukhumvit Road", "Sathorn Road", "Ploenchit Road", "Ratchadamri Road"},
	"Pattaya": {
		"Beach Road", "Second Road", "Third Road", "Pattaya Klang Road", "Pattaya Tai Road",
		"Sukhumvit Road", "Jomtien Beach Road", "Thappraya Road", "Naklua Road", "Soi Buakhao",
		"Central Pattaya Road", "North Pattaya Road", "South Pattaya Road", "Soi LK Metro",
		"Soi Yensabai", "Soi Honey Inn", "Soi Diana Inn", "Soi Yamato", "Soi Chaiyapoon",
	},
	models.DefaultRegionName: {"Main Street", "Oak Avenue", "Park Road", "First Street", "Central Boulevard", "Market Street"},
}

var cuisines = map[string]string{
	"New York":    "American",
	"Los Angeles": "Californian",
	"London":      "British",
	"Paris":       "French",
	"Tokyo":       "Japanese",
	"Sydney":      "Australian",
	"Bangkok":     "Thai",
	"Pattaya":     "Thai",
	"Singapore":   "Singaporean",
	"Dubai":       "Middle Eastern",
	"Berlin":      "German",
}

var categoryPools = map[string]string{
	models.CategoryRestaurant:     PoolRestaurants,
	models.CategoryBarRestaurant:  PoolBars,
	models.CategoryCafe:           PoolCafes,
	models.CategorySpaWellness:    PoolSpas,
	models.CategoryMassageParlour: PoolSpas,
	models.CategoryStreetFood:     PoolRestaurants,
}

// PoolFor maps a venue category to its name-pool key.
func PoolFor(category string) string {
	if pool, ok := categoryPools[category]; ok {
		return pool
	}
	return PoolRestaurants
}

// RegionCatalog resolves coordinates to regions and regions to name pools.
// Its tables are read-only, so a single catalog is shared by all callers.
type RegionCatalog struct {
	regions  []models.Region
	venues   map[string]map[string][]string
	streets  map[string][]string
	cuisines map[string]string
}

func NewRegionCatalog() *RegionCatalog {
	return &RegionCatalog{
		regions:  regions,
		venues:   venueCatalogs,
		streets:  streetCatalogs,
		cuisines: cuisines,
	}
}

// Lookup returns the first region whose box contains c, or DefaultRegion.
// A dozen boxes make a linear scan fine; a spatial index would have to keep
// first-match-wins for overlapping boxes.
func (c *RegionCatalog) Lookup(coord models.Coordinate) models.Region {
	for _, r := range c.regions {
		if r.Contains(coord) {
			return r
		}
	}
	return DefaultRegion
}

// Regions returns a copy of the region table.
func (c *RegionCatalog) Regions() []models.Region {
	out := make([]models.Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// CatalogFor returns the candidate names for a category in region. Regions
// without a catalog use the default one; a missing pool falls back to
// restaurants.
func (c *RegionCatalog) CatalogFor(region models.Region, category string) []string {
	catalog, ok := c.venues[region.Name]
	if !ok {
		catalog = c.venues[models.DefaultRegionName]
	}
	if names, ok := catalog[PoolFor(category)]; ok && len(names) > 0 {
		return names
	}
	return catalog[PoolRestaurants]
}

// StreetsFor returns the street-name pool for region.
func (c *RegionCatalog) StreetsFor(region models.Region) []string {
	if streets, ok := c.streets[region.Name]; ok {
		return streets
	}
	return c.streets[models.DefaultRegionName]
}

// CuisineFor names the region's cuisine, "international" when unknown.
func (c *RegionCatalog) CuisineFor(region models.Region) string {
	if cuisine, ok := c.cuisines[region.Name]; ok {
		return cuisine
	}
	return "international"
}
