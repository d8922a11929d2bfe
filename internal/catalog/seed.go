package catalog

// Supermarket is a branch as it appears in a partner feed.
type Supermarket struct {
	Brand   string
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

// RawDeal is a partner feed entry before normalization.
type RawDeal struct {
	ID            string
	Name          string
	Description   string
	Supermarket   Supermarket
	Category      string
	OriginalPrice float64
	NewPrice      float64
	Quantity      int
	Unit          string
	Expiry        string
}

var (
	wellcomeSaiYingPun = Supermarket{
		Brand:   "Wellcome",
		Name:    "Wellcome - Sai Ying Pun",
		Address: "52-60 High Street, Sai Ying Pun",
		Lat:     22.2863, Lng: 114.1418,
	}
	parknshopMayTower = Supermarket{
		Brand:   "ParknShop",
		Name:    "ParknShop - May Tower, Central",
		Address: "7-9 May Rd, Mid-Levels",
		Lat:     22.2741, Lng: 114.1568,
	}
	parknshopBelchers = Supermarket{
		Brand:   "ParknShop",
		Name:    "ParknShop - The Belcher's, HKU",
		Address: "G/F, The Belcher's, Pok Fu Lam",
		Lat:     22.2858, Lng: 114.1311,
	}
	yataShaTin = Supermarket{
		Brand:   "YATA",
		Name:    "YATA - Sha Tin",
		Address: "New Town Plaza 3, Sha Tin",
		Lat:     22.3813, Lng: 114.1884,
	}
	citySuperTimesSquare = Supermarket{
		Brand:   "CitySuper",
		Name:    "CitySuper - Times Square",
		Address: "Times Square, Causeway Bay",
		Lat:     22.2783, Lng: 114.1823,
	}
	marketPlaceLangham = Supermarket{
		Brand:   "Market Place",
		Name:    "Market Place - Langham Place",
		Address: "Langham Place, Mong Kok",
		Lat:     22.3184, Lng: 114.1691,
	}
)

// SeedDeals is the built-in partner feed served when no other source is configured.
var SeedDeals = []RawDeal{
	{
		ID: "SKU-384729", Name: "Kowloon Dairy Organic Milk (1L)",
		Description: "Fresh, organic whole milk from Kowloon Dairy.",
		Supermarket: wellcomeSaiYingPun, Category: "Dairy & Eggs",
		OriginalPrice: 35, NewPrice: 15, Quantity: 18, Unit: "carton",
		Expiry: "2025-11-14T23:59:59+08:00",
	},
	{
		ID: "SKU-927461", Name: "Pain D'Avoine Sourdough",
		Description: "Artisanal sourdough bread, baked fresh daily.",
		Supermarket: parknshopMayTower, Category: "Bakery",
		OriginalPrice: 48, NewPrice: 20, Quantity: 9, Unit: "loaf",
		Expiry: "2025-11-12T23:59:59+08:00",
	},
	{
		ID: "SKU-228374", Name: "Deluxe Nigiri Sushi Set (12pc)",
		Description: "Assorted nigiri set with salmon, tuna, and shrimp. Must be consumed today.",
		Supermarket: yataShaTin, Category: "Ready-to-Eat",
		OriginalPrice: 108, NewPrice: 54, Quantity: 11, Unit: "set",
		Expiry: "2025-11-12T20:00:00+08:00",
	},
	{
		ID: "SKU-561920", Name: "US Angus Ribeye Steak (250g)",
		Description: "Premium grain-fed US Angus ribeye, perfect for grilling.",
		Supermarket: citySuperTimesSquare, Category: "Meat & Poultry",
		OriginalPrice: 145, NewPrice: 70, Quantity: 6, Unit: "pack",
		Expiry: "2025-11-13T23:59:59+08:00",
	},
	{
		ID: "SKU-773629", Name: "Norwegian Salmon Fillet (300g)",
		Description: "Sustainably farmed Norwegian salmon, sashimi grade.",
		Supermarket: citySuperTimesSquare, Category: "Seafood",
		OriginalPrice: 110, NewPrice: 55, Quantity: 8, Unit: "pack",
		Expiry: "2025-11-13T23:59:59+08:00",
	},
	{
		ID: "SKU-192837", Name: "Organic Avocado (3-pack)",
		Description: "Ripe and ready-to-eat Hass avocados.",
		Supermarket: parknshopBelchers, Category: "Produce",
		OriginalPrice: 65, NewPrice: 30, Quantity: 22, Unit: "pack",
		Expiry: "2025-11-14T23:59:59+08:00",
	},
	{
		ID: "SKU-482711", Name: "Japanese Free-Range Eggs (10-pack)",
		Description: "Premium eggs with rich, orange yolks.",
		Supermarket: yataShaTin, Category: "Dairy & Eggs",
		OriginalPrice: 42, NewPrice: 21, Quantity: 15, Unit: "pack",
		Expiry: "2025-11-15T23:59:59+08:00",
	},
	{
		ID: "SKU-663810", Name: "Truffle Brie (150g)",
		Description: "Creamy brie cheese infused with black truffle.",
		Supermarket: marketPlaceLangham, Category: "Deli & Cheese",
		OriginalPrice: 95, NewPrice: 45, Quantity: 7, Unit: "piece",
		Expiry: "2025-11-16T23:59:59+08:00",
	},
	{
		ID: "SKU-381729", Name: "CP Fresh Chicken Drumsticks (500g)",
		Description: "Fresh, hormone-free chicken drumsticks.",
		Supermarket: wellcomeSaiYingPun, Category: "Meat & Poultry",
		OriginalPrice: 55, NewPrice: 27.5, Quantity: 14, Unit: "pack",
		Expiry: "2025-11-13T23:59:59+08:00",
	},
	{
		ID: "SKU-448291", Name: "Croissant (2-pack)",
		Description: "Flaky, all-butter croissants.",
		Supermarket: parknshopMayTower, Category: "Bakery",
		OriginalPrice: 24, NewPrice: 12, Quantity: 10, Unit: "pack",
		Expiry: "2025-11-12T23:59:59+08:00",
	},
	{
		ID: "SKU-510283", Name: "Zespri Gold Kiwifruit (Large)",
		Description: "Sweet and juicy gold kiwifruit.",
		Supermarket: parknshopBelchers, Category: "Produce",
		OriginalPrice: 8, NewPrice: 3, Quantity: 45, Unit: "piece",
		Expiry: "2025-11-15T23:59:59+08:00",
	},
	{
		ID: "SKU-772619", Name: "Haagen-Dazs Vanilla Ice Cream (473ml)",
		Description: "Classic vanilla bean ice cream pint.",
		Supermarket: wellcomeSaiYingPun, Category: "Frozen Foods",
		OriginalPrice: 88, NewPrice: 44, Quantity: 13, Unit: "pint",
		Expiry: "2026-01-30T23:59:59+08:00",
	},
	{
		ID: "SKU-629910", Name: "Roast Chicken & Avocado Sandwich",
		Description: "Ready-to-eat sandwich on wholewheat bread.",
		Supermarket: marketPlaceLangham, Category: "Ready-to-Eat",
		OriginalPrice: 42, NewPrice: 21, Quantity: 8, Unit: "pack",
		Expiry: "2025-11-12T21:00:00+08:00",
	},
	{
		ID: "SKU-381121", Name: "Barilla Spaghetti No. 5 (500g)",
		Description: "Classic spaghetti pasta.",
		Supermarket: parknshopBelchers, Category: "Pantry Goods",
		OriginalPrice: 25, NewPrice: 12.5, Quantity: 30, Unit: "pack",
		Expiry: "2026-06-15T23:59:59+08:00",
	},
	{
		ID: "SKU-992817", Name: "Freshly Squeezed Orange Juice (1L)",
		Description: "100% pure orange juice, squeezed in-store.",
		Supermarket: citySuperTimesSquare, Category: "Drinks & Juices",
		OriginalPrice: 68, NewPrice: 34, Quantity: 10, Unit: "bottle",
		Expiry: "2025-11-14T23:59:59+08:00",
	},
	{
		ID: "SKU-411234", Name: "Boston Lobster (Live)",
		Description: "Live Boston lobster, approx 600g.",
		Supermarket: yataShaTin, Category: "Seafood",
		OriginalPrice: 198, NewPrice: 99, Quantity: 5, Unit: "piece",
		Expiry: "2025-11-12T22:00:00+08:00",
	},
	{
		ID: "SKU-841273", Name: "Impossible Plant-Based Burger Patties (2-pack)",
		Description: "Juicy plant-based patties high in protein and iron.",
		Supermarket: citySuperTimesSquare, Category: "Plant-Based",
		OriginalPrice: 68, NewPrice: 39, Quantity: 12, Unit: "pack",
		Expiry: "2025-11-14T18:00:00+08:00",
	},
	{
		ID: "SKU-550118", Name: "Thai Mango Sticky Rice Cup",
		Description: "Single-serve dessert with coconut cream and seasonal mangos.",
		Supermarket: marketPlaceLangham, Category: "Desserts",
		OriginalPrice: 36, NewPrice: 18, Quantity: 16, Unit: "cup",
		Expiry: "2025-11-12T21:30:00+08:00",
	},
}

var dietaryTagsByCategory = map[string][]string{
	"Dairy & Eggs":    {"Vegetarian", "High Protein"},
	"Bakery":          {"Vegetarian"},
	"Ready-to-Eat":    {"Ready to Eat"},
	"Meat & Poultry":  {"High Protein"},
	"Seafood":         {"Omega-3"},
	"Produce":         {"Vegan", "Local"},
	"Deli & Cheese":   {"Gourmet"},
	"Frozen Foods":    {"Family Friendly"},
	"Pantry Goods":    {"Shelf Stable"},
	"Drinks & Juices": {"Vitamin C"},
	"Plant-Based":     {"Vegan", "High Protein"},
	"Desserts":        {"Sweet Treat"},
}

var badgesByCategory = map[string][]string{
	"Dairy & Eggs":    {"Organic pick"},
	"Bakery":          {"Baked today"},
	"Ready-to-Eat":    {"Dinner rush"},
	"Meat & Poultry":  {"Chef favourite"},
	"Seafood":         {"Ocean friendly"},
	"Produce":         {"In season"},
	"Deli & Cheese":   {"Limited batch"},
	"Frozen Foods":    {"Freezer friendly"},
	"Pantry Goods":    {"Staple deal"},
	"Drinks & Juices": {"Pressed today"},
	"Plant-Based":     {"Plant-powered"},
	"Desserts":        {"Dessert dash"},
}

type storeMeta struct {
	DistanceKm   float64
	Phone        string
	OpeningHours string
}

// keyed by store id
var storeMetadata = map[string]storeMeta{
	"wellcome-sai-ying-pun":       {0.8, "3106 1234", "08:00 - 22:00"},
	"parknshop-may-tower-central": {1.4, "2831 2211", "09:00 - 21:00"},
	"parknshop-the-belchers-hku":  {1.1, "2559 3777", "09:00 - 21:30"},
	"yata-sha-tin":                {10.2, "2694 1111", "10:00 - 22:00"},
	"citysuper-times-square":      {3.4, "2506 2888", "10:00 - 22:00"},
	"market-place-langham-place":  {5.9, "2780 1122", "09:30 - 21:30"},
}

var defaultStoreMeta = storeMeta{4.5, "2700 0000", "09:00 - 21:00"}
