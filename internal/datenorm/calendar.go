package datenorm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Japanese absolute and weekday forms the parser misreads. They are
// resolved here; everything else goes to the parser.
var (
	monthDayPattern = regexp.MustCompile(`^(?:(\d{4})年)?(\d{1,2})月(\d{1,2})日$`)
	weekdayPattern  = regexp.MustCompile(`^(今週|来週|再来週|先週)の?([月火水木金土日])(?:曜日|曜)?$`)
)

var weekOffsets = map[string]int{"先週": -1, "今週": 0, "来週": 1, "再来週": 2}

var weekdayNames = map[string]time.Weekday{
	"月": time.Monday,
	"火": time.Tuesday,
	"水": time.Wednesday,
	"木": time.Thursday,
	"金": time.Friday,
	"土": time.Saturday,
	"日": time.Sunday,
}

// resolveCalendar handles M月D日, YYYY年M月D日 and 来週の金曜日 style
// expressions. The second result reports whether expr had one of these
// forms; the third is false for impossible dates such as 2月30日.
func resolveCalendar(expr string, ref time.Time) (time.Time, bool, bool) {
	if m := monthDayPattern.FindStringSubmatch(expr); m != nil {
		t, ok := resolveMonthDay(m[1], m[2], m[3], ref)
		return t, true, ok
	}
	if m := weekdayPattern.FindStringSubmatch(expr); m != nil {
		return resolveWeekday(m[1], m[2], ref), true, true
	}
	return time.Time{}, false, false
}

// resolveMonthDay returns midnight of the date. Without a year the next
// occurrence on or after ref's day is used.
func resolveMonthDay(yearStr, monthStr, dayStr string, ref time.Time) (time.Time, bool) {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if yearStr != "" {
		year, _ := strconv.Atoi(yearStr)
		return validDate(year, month, day, ref.Location())
	}

	// 2月29日 may be up to eight years away
	today := startOfDay(ref)
	for y := ref.Year(); y <= ref.Year()+8; y++ {
		if t, ok := validDate(y, month, day, ref.Location()); ok && !t.Before(today) {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveWeekday picks the named day in the week offset from ref's week.
// Weeks start on Monday.
func resolveWeekday(week, dayName string, ref time.Time) time.Time {
	monday := startOfDay(ref).AddDate(0, 0, -((int(ref.Weekday()) + 6) % 7))
	offset := (int(weekdayNames[dayName]) + 6) % 7
	return monday.AddDate(0, 0, 7*weekOffsets[week]+offset)
}

func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// stripSpaces removes the spaces posts often put inside dates (8月 20日)
func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
