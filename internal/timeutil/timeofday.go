package timeutil

import (
	"time"

	"github.com/rs/zerolog/log"
)

// TimeOfDay buckets an hour into the four conversational day parts.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// ForHour maps a 24-hour clock value to its day part: morning 5-11,
// afternoon 12-16, evening 17-20, night 21-4.
func ForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour <= 11:
		return Morning
	case hour >= 12 && hour <= 16:
		return Afternoon
	case hour >= 17 && hour <= 20:
		return Evening
	default:
		return Night
	}
}

// Now returns the current day part in the given IANA timezone. An
// unknown timezone falls back to UTC.
func Now(timezone string) TimeOfDay {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Str("timezone", timezone).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}
	return ForHour(time.Now().In(loc).Hour())
}

var greetings = map[TimeOfDay]string{
	Morning:   "Good morning!",
	Afternoon: "Good afternoon!",
	Evening:   "Good evening!",
	Night:     "Hey, up late?",
}

// Greeting returns a short opener matching the day part.
func Greeting(tod TimeOfDay) string {
	if g, ok := greetings[tod]; ok {
		return g
	}
	return greetings[Morning]
}
