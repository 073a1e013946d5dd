package payroll

// Pay policy constants.
const (
	RegularHours       = 40.0
	OvertimeMultiplier = 1.5

	UpperBracketThreshold = 50000.0
	UpperBracketRate      = 0.20
	LowerBracketThreshold = 20000.0
	LowerBracketRate      = 0.10
)

// GrossSalary returns pay before tax. Hours beyond RegularHours are paid at
// OvertimeMultiplier times the base rate. Hours are not bounded.
func GrossSalary(rate, hours float64) float64 {
	if hours > RegularHours {
		overtime := hours - RegularHours
		return RegularHours*rate + overtime*rate*OvertimeMultiplier
	}
	return hours * rate
}

// Tax applies a single bracket rate to the whole gross amount.
// It is a step function, not a progressive schedule.
func Tax(gross float64) float64 {
	switch {
	case gross > UpperBracketThreshold:
		return gross * UpperBracketRate
	case gross > LowerBracketThreshold:
		return gross * LowerBracketRate
	default:
		return 0
	}
}

// NetSalary is gross minus tax.
func NetSalary(rate, hours float64) float64 {
	gross := GrossSalary(rate, hours)
	return gross - Tax(gross)
}
