package majorfit

// DefaultEstimatedIncome stands in for majors without an income estimate.
const DefaultEstimatedIncome = 60000

// IncomeGap is the absolute distance between a major's estimated salary and the
// desired income. It is reported alongside a recommendation and never used to
// order or filter majors.
func IncomeGap(major string, desiredIncome int, estimates map[string]int) int {
	est, ok := estimates[major]
	if !ok {
		est = DefaultEstimatedIncome
	}
	gap := est - desiredIncome
	if gap < 0 {
		return -gap
	}
	return gap
}
