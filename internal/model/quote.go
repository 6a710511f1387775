package model

import "time"

var dailyQuotes = []string{
	"The quieter you become, the more you are able to hear.",
	"Stillness is the altar of spirit.",
	"The journey of a thousand miles begins with a single step.",
	"Your breath is your anchor in the storm of thoughts.",
	"Peace comes from within. Do not seek it without.",
}

// DailyQuote returns the quote for day's calendar date. Every moment of the
// same date yields the same quote.
func DailyQuote(day time.Time) string {
	y, m, d := day.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	idx := int(days % int64(len(dailyQuotes)))
	if idx < 0 {
		idx += len(dailyQuotes)
	}
	return dailyQuotes[idx]
}
