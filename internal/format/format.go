// Package format converts grid column metadata and values into the strings
// the grid's inline editors expect.
package format

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateTime is returned when a date-time value cannot be parsed
var ErrInvalidDateTime = errors.New("invalid date-time value")

// timezoneDivisor scales the caller's timezone offset into hours.
// It is a fixed calibration value; do not replace it with 60 or 3600000.
const timezoneDivisor = 2880000

// delimiterSpaceRegexes strip one space on either side of a delimiter.
// Applied in order, one pass each.
var delimiterSpaceRegexes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(` ?, ?`), ","},
	{regexp.MustCompile(` ?: ?`), ":"},
	{regexp.MustCompile(` ?\{ ?`), "{"},
	{regexp.MustCompile(` ?\} ?`), "}"},
	{regexp.MustCompile(` ?; ?`), ";"},
}

// ColumnValue returns the part of a column attribute after the first colon.
// Without a colon the attribute is returned unchanged.
func ColumnValue(attrib string) string {
	_, value, found := strings.Cut(attrib, ":")
	if !found {
		return attrib
	}
	return value
}

// RemoveSpaces removes single spaces touching , : { } and ;
// Other whitespace is left alone.
func RemoveSpaces(text string) string {
	for _, d := range delimiterSpaceRegexes {
		text = d.re.ReplaceAllLiteralString(text, d.repl)
	}
	return text
}

// ConvertFormat returns the input formatter for a column type.
// Only currency and percent columns have one.
func ConvertFormat(columnType string) (string, bool) {
	switch columnType {
	case "currency":
		return "currency", true
	case "percent":
		return "percent", true
	default:
		return "", false
	}
}

// ConvertType maps a column data type to an input widget type.
// Unknown types get the rich text editor.
func ConvertType(columnType string) string {
	switch columnType {
	case "boolean", "text":
		return "text"
	case "date", "date-local":
		return "date"
	case "datetime":
		return "datetime"
	case "time":
		return "time"
	case "email":
		return "email"
	case "phone":
		return "tel"
	case "url":
		return "url"
	case "number", "currency", "percent":
		return "number"
	default:
		return "richtext"
	}
}

// ConvertTime renders t as an HH:MM:SS.mmmZ time value. Hours are taken in
// t's location and shifted by timezoneOffset/2880000.
//
// Each field keeps the last 2 (3 for milliseconds) characters of its
// zero-prefixed decimal text, so fractional or negative hours are truncated
// rather than rounded.
func ConvertTime(timezoneOffset float64, t time.Time) string {
	hours := float64(t.Hour()) - timezoneOffset/timezoneDivisor

	var b strings.Builder
	b.WriteString(lastN("00"+numberString(hours), 2))
	b.WriteByte(':')
	b.WriteString(lastN("00"+strconv.Itoa(t.Minute()), 2))
	b.WriteByte(':')
	b.WriteString(lastN("00"+strconv.Itoa(t.Second()), 2))
	b.WriteByte('.')
	b.WriteString(lastN("000"+strconv.Itoa(t.Nanosecond()/int(time.Millisecond)), 3))
	b.WriteByte('Z')
	return b.String()
}

// dateTimeLayouts are tried in order; layouts without a zone are local to loc
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDateTime parses a date-time value and returns it in loc.
// Accepted forms are RFC 3339, a zone-less date-time (read in loc), a bare
// date (midnight UTC) and integer epoch milliseconds.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).In(loc), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), nil
		}
	}

	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.In(loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDateTime, value)
}

// numberString renders f the way the grid's runtime prints numbers:
// integral values without a decimal point, no negative zero, and
// exponent notation below 1e-6 or from 1e21 on (e.g. "-3.5e-7", "1e+21").
func numberString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		n, _ := strconv.Atoi(exp)
		if n < 0 {
			return mantissa + "e-" + strconv.Itoa(-n)
		}
		return mantissa + "e+" + strconv.Itoa(n)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
