package nestegg

import (
	"errors"
	"fmt"
)

// Plan is the user's retirement plan.
//
// CurrentSavings is the sum of the cash savings and of the watch-list market
// value. It excludes the legacy insurance which is modeled by the three
// Insurance fields and compounds annually at its own fixed rate.
type Plan struct {
	CurrentAge           int     `json:"currentAge" yaml:"currentAge"`
	RetirementAge        int     `json:"retirementAge" yaml:"retirementAge"`
	CurrentSavings       float64 `json:"currentSavings" yaml:"currentSavings"`
	MonthlySavings       float64 `json:"monthlySavings" yaml:"monthlySavings"`
	TargetMonthlyPension float64 `json:"targetMonthlyPension" yaml:"targetMonthlyPension"`
	ExpectedAnnualReturn Percent `json:"expectedAnnualReturn" yaml:"expectedAnnualReturn"`
	InsurancePrincipal   float64 `json:"insurancePrincipal" yaml:"insurancePrincipal"`
	InsuranceRate        Percent `json:"insuranceRate" yaml:"insuranceRate"`
	InsuranceYearDone    int     `json:"insuranceYearDone" yaml:"insuranceYearDone"`
}

// DefaultPlan returns the plan used before the user edits anything.
func DefaultPlan() Plan {
	return Plan{
		CurrentAge:           30,
		RetirementAge:        65,
		CurrentSavings:       1000000,
		MonthlySavings:       20000,
		TargetMonthlyPension: 50000,
		ExpectedAnnualReturn: 6,
		InsurancePrincipal:   200000,
		InsuranceRate:        2.5,
		InsuranceYearDone:    2022,
	}
}

// Computable reports whether a projection can be made for this plan.
func (p Plan) Computable() bool { return p.RetirementAge > p.CurrentAge }

// Validate returns all the reasons why p cannot be accepted, joined, each
// wrapping ErrInvalidInput.
//
// A plan with RetirementAge <= CurrentAge is valid: it is simply not computable yet.
func (p Plan) Validate() error {
	var errs []error
	if p.CurrentAge < 0 {
		errs = append(errs, fmt.Errorf("%w: current age %d is negative", ErrInvalidInput, p.CurrentAge))
	}
	if p.RetirementAge < 0 {
		errs = append(errs, fmt.Errorf("%w: retirement age %d is negative", ErrInvalidInput, p.RetirementAge))
	}
	if p.MonthlySavings < 0 {
		errs = append(errs, fmt.Errorf("%w: monthly savings %v is negative", ErrInvalidInput, p.MonthlySavings))
	}
	if p.TargetMonthlyPension < 0 {
		errs = append(errs, fmt.Errorf("%w: target monthly pension %v is negative", ErrInvalidInput, p.TargetMonthlyPension))
	}
	if p.InsurancePrincipal < 0 {
		errs = append(errs, fmt.Errorf("%w: insurance principal %v is negative", ErrInvalidInput, p.InsurancePrincipal))
	}
	return errors.Join(errs...)
}
