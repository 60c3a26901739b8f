package reports

import "github.com/shopspring/decimal"

// Breakdown is the donated weight attributed to one fruit, center or farm.
type Breakdown struct {
	Name       string          `json:"name"`
	Lbs        decimal.Decimal `json:"lbs"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Impact converts donated weight into headline figures.
type Impact struct {
	Meals        int64           `json:"meals"`
	FoodValueUSD decimal.Decimal `json:"food_value_usd"`
	CO2SavedTons decimal.Decimal `json:"co2_saved_tons"`
}

// FarmerReport summarizes a farm's non-nullified donations.
type FarmerReport struct {
	TotalPickedLbs  decimal.Decimal `json:"total_picked_lbs"`
	TotalDonatedLbs decimal.Decimal `json:"total_donated_lbs"`
	WasteRate       decimal.Decimal `json:"waste_rate"`
	TotalVolunteers int             `json:"total_volunteers"`
	ActiveShifts    int64           `json:"active_shifts"`
	DonationCount   int             `json:"donation_count"`
	PartnerCenters  int             `json:"partner_centers"`
	ByFruit         []Breakdown     `json:"by_fruit"`
	ByCenter        []Breakdown     `json:"by_center"`
	Impact          Impact          `json:"impact"`
}

// CenterReport summarizes the non-nullified donations a center received.
type CenterReport struct {
	TotalDonatedLbs decimal.Decimal `json:"total_donated_lbs"`
	DonationCount   int             `json:"donation_count"`
	ByFruit         []Breakdown     `json:"by_fruit"`
	ByFarm          []Breakdown     `json:"by_farm"`
}

type farmDonationRow struct {
	Fruit            string          `gorm:"column:fruit"`
	AmountPickedLbs  decimal.Decimal `gorm:"column:amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `gorm:"column:amount_donated_lbs"`
	VolunteerCount   int             `gorm:"column:volunteer_count"`
	CenterName       *string         `gorm:"column:center_name"`
}

type centerDonationRow struct {
	Fruit            string          `gorm:"column:fruit"`
	AmountDonatedLbs decimal.Decimal `gorm:"column:amount_donated_lbs"`
	FarmName         string          `gorm:"column:farm_name"`
}
