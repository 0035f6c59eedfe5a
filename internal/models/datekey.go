package models

import "time"

// DateKeyLayout is the calendar-day key format used on transactions,
// contributions, and goal deadlines.
const DateKeyLayout = "2006-01-02"

// MonthKeyLayout is the month-scope format used on budgets.
const MonthKeyLayout = "2006-01"

// ValidDateKey reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDateKey(s string) bool {
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil && len(s) == len(DateKeyLayout)
}

// ValidMonthKey reports whether s is a real month in YYYY-MM form.
func ValidMonthKey(s string) bool {
	_, err := time.Parse(MonthKeyLayout, s)
	return err == nil && len(s) == len(MonthKeyLayout)
}
