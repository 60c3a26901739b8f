package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

// UnknownCenter labels donations logged without a center.
const UnknownCenter = "Unknown"

var (
	hundred        = decimal.NewFromInt(100)
	lbsPerMeal     = decimal.RequireFromString("0.25")
	usdPerLb       = decimal.RequireFromString("1.5")
	co2TonsPerLb   = decimal.RequireFromString("0.0005")
	percentPlaces  = int32(1)
	quantityPlaces = int32(2)
)

// Service builds the farmer and center reports.
type Service interface {
	Farmer(ctx context.Context, farmID uuid.UUID) (*FarmerReport, error)
	Center(ctx context.Context, centerID uuid.UUID) (*CenterReport, error)
}

type reportRepository interface {
	FarmDonations(ctx context.Context, farmID uuid.UUID) ([]farmDonationRow, error)
	CenterDonations(ctx context.Context, centerID uuid.UUID) ([]centerDonationRow, error)
	CountActiveShifts(ctx context.Context, farmID uuid.UUID) (int64, error)
}

type service struct {
	repo reportRepository
}

// NewService builds a report service.
func NewService(repo reportRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Farmer(ctx context.Context, farmID uuid.UUID) (*FarmerReport, error) {
	rows, err := s.repo.FarmDonations(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donations")
	}
	active, err := s.repo.CountActiveShifts(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count shifts")
	}

	report := &FarmerReport{
		TotalPickedLbs:  decimal.Zero,
		TotalDonatedLbs: decimal.Zero,
		ActiveShifts:    active,
		DonationCount:   len(rows),
	}
	byFruit := newTally()
	byCenter := newTally()
	for _, row := range rows {
		report.TotalPickedLbs = report.TotalPickedLbs.Add(row.AmountPickedLbs)
		report.TotalDonatedLbs = report.TotalDonatedLbs.Add(row.AmountDonatedLbs)
		report.TotalVolunteers += row.VolunteerCount
		byFruit.add(row.Fruit, row.AmountDonatedLbs)
		center := UnknownCenter
		if row.CenterName != nil {
			center = *row.CenterName
		}
		byCenter.add(center, row.AmountDonatedLbs)
	}
	report.WasteRate = WasteRate(report.TotalPickedLbs, report.TotalDonatedLbs)
	report.ByFruit = byFruit.breakdown(report.TotalDonatedLbs)
	report.ByCenter = byCenter.breakdown(report.TotalDonatedLbs)
	report.PartnerCenters = len(report.ByCenter)
	report.Impact = ImpactOf(report.TotalDonatedLbs)
	return report, nil
}

func (s *service) Center(ctx context.Context, centerID uuid.UUID) (*CenterReport, error) {
	rows, err := s.repo.CenterDonations(ctx, centerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donations")
	}

	report := &CenterReport{TotalDonatedLbs: decimal.Zero, DonationCount: len(rows)}
	byFruit := newTally()
	byFarm := newTally()
	for _, row := range rows {
		report.TotalDonatedLbs = report.TotalDonatedLbs.Add(row.AmountDonatedLbs)
		byFruit.add(row.Fruit, row.AmountDonatedLbs)
		byFarm.add(row.FarmName, row.AmountDonatedLbs)
	}
	report.ByFruit = byFruit.breakdown(report.TotalDonatedLbs)
	report.ByFarm = byFarm.breakdown(report.TotalDonatedLbs)
	return report, nil
}

// WasteRate is the share of picked weight that was not donated, in percent
// with one decimal place. It is zero when nothing was picked.
func WasteRate(picked, donated decimal.Decimal) decimal.Decimal {
	if !picked.IsPositive() {
		return decimal.Zero
	}
	return picked.Sub(donated).Div(picked).Mul(hundred).Round(percentPlaces)
}

// ImpactOf derives meals, food value and CO2 figures from donated pounds.
func ImpactOf(donated decimal.Decimal) Impact {
	return Impact{
		Meals:        donated.Div(lbsPerMeal).Round(0).IntPart(),
		FoodValueUSD: donated.Mul(usdPerLb).Round(quantityPlaces),
		CO2SavedTons: donated.Mul(co2TonsPerLb).Round(quantityPlaces),
	}
}

type tally struct {
	order  []string
	lbs    map[string]decimal.Decimal
	counts map[string]int
}

func newTally() *tally {
	return &tally{lbs: map[string]decimal.Decimal{}, counts: map[string]int{}}
}

func (t *tally) add(name string, lbs decimal.Decimal) {
	if _, ok := t.lbs[name]; !ok {
		t.order = append(t.order, name)
		t.lbs[name] = decimal.Zero
	}
	t.lbs[name] = t.lbs[name].Add(lbs)
	t.counts[name]++
}

// breakdown lists the tallied names heaviest first.
func (t *tally) breakdown(total decimal.Decimal) []Breakdown {
	out := make([]Breakdown, 0, len(t.order))
	for _, name := range t.order {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = t.lbs[name].Div(total).Mul(hundred).Round(percentPlaces)
		}
		out = append(out, Breakdown{Name: name, Lbs: t.lbs[name], Count: t.counts[name], Percentage: pct})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Lbs.Equal(out[j].Lbs) {
			return out[i].Lbs.GreaterThan(out[j].Lbs)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
