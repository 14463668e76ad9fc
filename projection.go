package nestegg

import (
	"fmt"
	"math"
)

// SafeWithdrawalRate is the yearly fraction of the accumulated capital that
// can be withdrawn without exhausting it.
const SafeWithdrawalRate = 0.04

// Projection is the state of a Plan at retirement.
type Projection struct {
	YearsToRetirement      int     `json:"yearsToRetirement"`
	RetirementYear         int     `json:"retirementYear"`
	SavingsValue           float64 `json:"savingsValue"`     // current savings compounded monthly
	ContributionValue      float64 `json:"contributionValue"` // monthly savings stream
	InsuranceValue         float64 `json:"insuranceValue"`
	TotalAccumulated       float64 `json:"totalAccumulated"`
	MonthlyPensionPossible float64 `json:"monthlyPensionPossible"`
	IsGoalReachable        bool    `json:"isGoalReachable"`
	RequiredTotal          float64 `json:"requiredTotal"`
	Shortfall              float64 `json:"shortfall"`

	Timeline []YearPoint `json:"timeline"`
}

// YearPoint is the accumulated capital at the end of a given year.
type YearPoint struct {
	Age       int     `json:"age"`
	Year      int     `json:"year"`
	Invested  float64 `json:"invested"` // savings and contributions
	Insurance float64 `json:"insurance"`
	Total     float64 `json:"total"`
}

// Project computes the plan's projection assuming that the current calendar
// year is 'year'.
//
// ok is false when the plan is not computable (RetirementAge <= CurrentAge).
// An error wrapping ErrNumeric is returned if any figure is NaN or infinite.
func (p Plan) Project(year int) (proj Projection, ok bool, err error) {
	if !p.Computable() {
		return proj, false, nil
	}
	years := p.RetirementAge - p.CurrentAge
	monthlyRate := p.ExpectedAnnualReturn.Ratio() / 12

	proj.YearsToRetirement = years
	proj.RetirementYear = year + years
	proj.SavingsValue = lumpSumValue(p.CurrentSavings, monthlyRate, years*12)
	proj.ContributionValue = annuityValue(p.MonthlySavings, monthlyRate, years*12)
	proj.InsuranceValue = p.insuranceValue(proj.RetirementYear)
	proj.TotalAccumulated = proj.SavingsValue + proj.ContributionValue + proj.InsuranceValue

	proj.MonthlyPensionPossible = proj.TotalAccumulated * SafeWithdrawalRate / 12
	proj.IsGoalReachable = proj.MonthlyPensionPossible >= p.TargetMonthlyPension
	proj.RequiredTotal = p.TargetMonthlyPension * 12 / SafeWithdrawalRate
	proj.Shortfall = math.Max(0, proj.RequiredTotal-proj.TotalAccumulated)

	proj.Timeline = make([]YearPoint, 0, years+1)
	for k := 0; k <= years; k++ {
		invested := lumpSumValue(p.CurrentSavings, monthlyRate, k*12) + annuityValue(p.MonthlySavings, monthlyRate, k*12)
		insurance := p.insuranceValue(year + k)
		proj.Timeline = append(proj.Timeline, YearPoint{
			Age:       p.CurrentAge + k,
			Year:      year + k,
			Invested:  invested,
			Insurance: insurance,
			Total:     invested + insurance,
		})
	}

	if err := proj.check(); err != nil {
		return Projection{}, false, err
	}
	return proj, true, nil
}

// lumpSumValue is the future value of 'amount' compounded monthly.
func lumpSumValue(amount, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return amount
	}
	return amount * math.Pow(1+monthlyRate, float64(months))
}

// annuityValue is the future value of 'payment' saved at the end of every month.
func annuityValue(payment, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return payment * float64(months)
	}
	return payment * (math.Pow(1+monthlyRate, float64(months)) - 1) / monthlyRate
}

// insuranceValue is the insurance principal compounded annually until 'year'.
// Years before InsuranceYearDone do not compound.
func (p Plan) insuranceValue(year int) float64 {
	years := max(0, year-p.InsuranceYearDone)
	return p.InsurancePrincipal * math.Pow(1+p.InsuranceRate.Ratio(), float64(years))
}

func (proj Projection) check() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"savings value", proj.SavingsValue},
		{"contribution value", proj.ContributionValue},
		{"insurance value", proj.InsuranceValue},
		{"total accumulated", proj.TotalAccumulated},
		{"monthly pension", proj.MonthlyPensionPossible},
		{"shortfall", proj.Shortfall},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrNumeric, f.name, f.value)
		}
	}
	return nil
}
