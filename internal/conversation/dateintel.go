package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Resolution strategy names, reported in DateResolution.Strategy and on the
// date-resolution metrics.
const (
	StrategyRelativeDay  = "relative_day"
	StrategyNamedWeekday = "named_weekday"
	StrategyExplicitDate = "explicit_date"
	StrategyRelativeWeek = "relative_week"
)

// DateResolution is the structured outcome of resolving one date expression.
// Success reports whether any strategy matched; Valid reports whether the
// resolved date passed business-rule validation.
type DateResolution struct {
	Success           bool
	Valid             bool
	Date              time.Time
	Strategy          string
	DisplayLabel      string
	DaysFromNow       int
	IsWeekend         bool
	AvailableSlots    []string
	ValidationMessage string
	Suggestions       []string
}

// DateResolver resolves natural-language date expressions against business
// constraints. It is stateless and safe for concurrent use.
type DateResolver struct {
	openHour    int // inclusive, local time
	closeHour   int // exclusive
	horizonDays int
}

// NewDateResolver builds a resolver with the given business hours and
// scheduling horizon in days.
func NewDateResolver(openHour, closeHour, horizonDays int) *DateResolver {
	return &DateResolver{openHour: openHour, closeHour: closeHour, horizonDays: horizonDays}
}

// WithHorizon returns a copy of the resolver with a different horizon. The
// booking flow uses a tighter window than general date parsing.
func (r *DateResolver) WithHorizon(days int) *DateResolver {
	return &DateResolver{openHour: r.openHour, closeHour: r.closeHour, horizonDays: days}
}

// ---------- strategy table ----------

// dateStrategy is one parsing technique. Strategies run strictly in order and
// the first one that matches wins; they are never combined.
type dateStrategy struct {
	name string
	fn   func(input string, now time.Time) (time.Time, bool)
}

var dateStrategies = []dateStrategy{
	{StrategyRelativeDay, parseRelativeDay},
	{StrategyNamedWeekday, parseNamedWeekday},
	{StrategyExplicitDate, parseExplicitDate},
	{StrategyRelativeWeek, parseRelativeWeek},
}

var (
	dayAfterTomorrowRE = regexp.MustCompile(`(?i)\bday\s+after\s+tomorrow\b`)
	inNDaysRE          = regexp.MustCompile(`(?i)\b(?:in|after)\s+(\d{1,3})\s+days?\b`)
	weekdayRefRE       = regexp.MustCompile(`(?i)\b(next|this)?\s*(monday|mon|tuesday|tue|tues|wednesday|wed|thursday|thu|thur|thurs|friday|fri|saturday|sat|sunday|sun)\b`)
	dayMonthRE         = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
	isoDateRE          = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	monthNameDateRE    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// Time-slot menus differ between weekdays and weekends.
var (
	weekdayTimeSlots = []string{"9:00 AM", "11:00 AM", "2:00 PM", "5:00 PM"}
	weekendTimeSlots = []string{"10:00 AM", "1:00 PM"}
)

// Resolve parses rawInput relative to now, then validates the resolved date
// against business rules. It never returns an error: unparsable input yields
// Success=false with suggestions, rule violations yield Valid=false with an
// explanatory message.
func (r *DateResolver) Resolve(rawInput string, now time.Time) DateResolution {
	input := strings.TrimSpace(rawInput)
	if input == "" {
		return r.unresolved(now)
	}

	for _, strategy := range dateStrategies {
		date, ok := strategy.fn(input, now)
		if !ok {
			continue
		}
		res := DateResolution{
			Success:  true,
			Date:     date,
			Strategy: strategy.name,
		}
		r.validate(&res, now)
		return res
	}
	return r.unresolved(now)
}

func (r *DateResolver) unresolved(now time.Time) DateResolution {
	return DateResolution{
		Success:           false,
		ValidationMessage: "I couldn't understand that date.",
		Suggestions: []string{
			"tomorrow",
			"next Monday",
			"in 3 days",
			now.AddDate(0, 0, 1).Format("02/01/2006"),
		},
	}
}

// ---------- individual strategies ----------

func parseRelativeDay(input string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(input)
	switch {
	case dayAfterTomorrowRE.MatchString(lower):
		return midnight(now.AddDate(0, 0, 2)), true
	case strings.Contains(lower, "tomorrow"):
		return midnight(now.AddDate(0, 0, 1)), true
	case strings.Contains(lower, "today"):
		return midnight(now), true
	}
	if m := inNDaysRE.FindStringSubmatch(lower); len(m) > 1 {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return midnight(now.AddDate(0, 0, n)), true
	}
	return time.Time{}, false
}

func parseNamedWeekday(input string, now time.Time) (time.Time, bool) {
	m := weekdayRefRE.FindStringSubmatch(input)
	if len(m) < 3 {
		return time.Time{}, false
	}
	modifier := strings.ToLower(m[1])
	target, ok := weekdaysByName[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	// Days until the nearest occurrence; 0 means the weekday is today.
	delta := (int(target) - int(now.Weekday()) + 7) % 7

	switch modifier {
	case "next":
		// "next <day>" skips this week entirely: at least 7 days out.
		if delta == 0 {
			delta = 7
		} else {
			delta += 7
		}
	case "this":
		// Later this week if the weekday hasn't passed, else next week.
		// delta already rolls to next week when the day has passed.
	default:
		// Bare weekday name: nearest upcoming occurrence.
	}
	return midnight(now.AddDate(0, 0, delta)), true
}

func parseExplicitDate(input string, now time.Time) (time.Time, bool) {
	// ISO first so YYYY-MM-DD is never misread as a day-month pair.
	if m := isoDateRE.FindStringSubmatch(input); len(m) > 3 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return buildCalendarDate(year, month, day, now)
	}

	// DD/MM[/YYYY] or DD-MM[-YYYY], day first.
	if m := dayMonthRE.FindStringSubmatch(input); len(m) > 3 {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		return buildCalendarDate(year, month, day, now)
	}

	// "<Month name> D[, YYYY]".
	if m := monthNameDateRE.FindStringSubmatch(input); len(m) > 3 {
		month, ok := monthsByName[strings.ToLower(m[1])[:3]]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return buildCalendarDate(year, int(month), day, now)
	}

	return time.Time{}, false
}

func parseRelativeWeek(input string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "next week"):
		return midnight(now.AddDate(0, 0, daysUntilNextMonday(now))), true
	case strings.Contains(lower, "this week"):
		// Tomorrow if still within the current week; on Sunday tomorrow is
		// already Monday of next week, which is the required fallback anyway.
		return midnight(now.AddDate(0, 0, 1)), true
	}
	return time.Time{}, false
}

// daysUntilNextMonday counts to Monday of the following week.
func daysUntilNextMonday(now time.Time) int {
	delta := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return delta
}

// buildCalendarDate rejects impossible calendar values (day 32, month 13)
// instead of letting time.Date normalize them into a different date.
func buildCalendarDate(year, month, day int, now time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween counts calendar days from one date to another. Counting
// by AddDate stays correct across DST transitions, where adjacent midnights
// can be 23 or 25 clock hours apart.
func calendarDaysBetween(from, to time.Time) int {
	fromDay := midnight(from)
	toDay := midnight(to)
	sign := 1
	if toDay.Before(fromDay) {
		fromDay, toDay = toDay, fromDay
		sign = -1
	}
	days := 0
	for d := fromDay; d.Before(toDay); d = d.AddDate(0, 0, 1) {
		days++
	}
	return sign * days
}

// ---------- post-resolution validation ----------

func (r *DateResolver) validate(res *DateResolution, now time.Time) {
	today := midnight(now)
	res.DaysFromNow = calendarDaysBetween(today, res.Date)
	res.DisplayLabel = res.Date.Format("Monday, January 2, 2006")
	res.IsWeekend = res.Date.Weekday() == time.Saturday || res.Date.Weekday() == time.Sunday

	if res.Date.Before(today) {
		res.Valid = false
		res.ValidationMessage = fmt.Sprintf("%s has already passed. Please choose a date from %s onward.",
			res.DisplayLabel, today.Format("January 2"))
		res.Suggestions = []string{"today", "tomorrow"}
		return
	}

	if res.Date.Equal(today) && !r.withinBusinessHours(now) {
		res.Valid = false
		res.ValidationMessage = fmt.Sprintf("Our team is available %d:00 to %d:00. For today please call during business hours, or pick another day.",
			r.openHour, r.closeHour)
		res.Suggestions = []string{"tomorrow"}
		return
	}

	if res.DaysFromNow > r.horizonDays {
		res.Valid = false
		res.ValidationMessage = fmt.Sprintf("We can only schedule up to %d days ahead. Please choose an earlier date.", r.horizonDays)
		res.Suggestions = []string{
			today.AddDate(0, 0, r.horizonDays).Format("02/01/2006"),
		}
		return
	}

	res.Valid = true
	if res.IsWeekend {
		res.AvailableSlots = append([]string(nil), weekendTimeSlots...)
		res.ValidationMessage = fmt.Sprintf("%s is a weekend, so only morning and afternoon slots are available.", res.DisplayLabel)
	} else {
		res.AvailableSlots = append([]string(nil), weekdayTimeSlots...)
	}
}

func (r *DateResolver) withinBusinessHours(now time.Time) bool {
	return now.Hour() >= r.openHour && now.Hour() < r.closeHour
}

// ---------- capacity check ----------

// CapacityCheck is the outcome of validating a resolved date against the
// daily booking capacity. Separate from date parsing: the booking flow calls
// it with the current booking count for the date.
type CapacityCheck struct {
	Valid        bool
	Remaining    int
	Alternatives []string // YYYY-MM-DD, proposed when the date is full
	Message      string
}

// CheckDailyCapacity reports whether date can still take a booking given
// existing bookings and the configured capacity. When full it proposes the
// next one or two calendar days as alternatives.
func CheckDailyCapacity(date time.Time, existing, capacity int) CapacityCheck {
	// Non-positive capacity means booking is disabled outright; no other day
	// would be open either, so no alternatives are proposed.
	if capacity <= 0 {
		return CapacityCheck{
			Valid:   false,
			Message: "Booking is currently unavailable. Please try again later or ask to speak with a specialist.",
		}
	}
	if existing >= capacity {
		return CapacityCheck{
			Valid: false,
			Alternatives: []string{
				date.AddDate(0, 0, 1).Format("2006-01-02"),
				date.AddDate(0, 0, 2).Format("2006-01-02"),
			},
			Message: fmt.Sprintf("%s is fully booked. The nearest open days are %s or %s.",
				date.Format("Monday, January 2"),
				date.AddDate(0, 0, 1).Format("Monday, January 2"),
				date.AddDate(0, 0, 2).Format("Monday, January 2")),
		}
	}
	return CapacityCheck{
		Valid:     true,
		Remaining: capacity - existing,
		Message:   fmt.Sprintf("%d booking slots remain on %s.", capacity-existing, date.Format("Monday, January 2")),
	}
}
