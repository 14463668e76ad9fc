package nestegg

import "fmt"

// Percent is a rate expressed in percent, 6 means 6%.
type Percent float64

// Ratio returns the rate as a fraction, 6% is 0.06.
func (p Percent) Ratio() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}
