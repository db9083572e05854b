package calculator

// DaysPerYear is the fixed year length used for forecast horizons. Leap
// days are ignored.
const DaysPerYear = 365

// HorizonDays converts a forecast horizon in years to calendar days.
func HorizonDays(years int) int {
	return years * DaysPerYear
}
