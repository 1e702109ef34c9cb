package domain

import "time"

// LastBusinessDay returns the most recent weekday strictly before the
// reference date, skipping Saturday and Sunday:
//
//	Monday   -> previous Friday (3 days back)
//	Sunday   -> previous Friday (2 days back)
//	Saturday -> previous Friday (1 day back)
//	else     -> previous day
func LastBusinessDay(today time.Time) time.Time {
	today = Day(today)
	switch today.Weekday() {
	case time.Monday:
		return today.AddDate(0, 0, -3)
	case time.Sunday:
		return today.AddDate(0, 0, -2)
	case time.Saturday:
		return today.AddDate(0, 0, -1)
	default:
		return today.AddDate(0, 0, -1)
	}
}
