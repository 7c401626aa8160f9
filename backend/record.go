package backend

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the one non-numeric field format understood by the parser.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one parsed input line. Records are never modified after parsing.
type Record []float64

// Field returns the value of field i, or zero when the record is too short.
func (r Record) Field(i int) float64 {
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

// ParseLine splits line on sep and converts every field to a float. Fields that
// are neither numbers nor timestamps become zero, so ParseLine never fails.
func ParseLine(sep, line string) Record {
	rec, _ := ParseLineCount(sep, line)
	return rec
}

// ParseLineCount is ParseLine, also reporting how many fields fell back to zero.
func ParseLineCount(sep, line string) (rec Record, fallbacks int) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, sep)
	rec = make(Record, len(fields))
	for i, field := range fields {
		v, ok := parseField(field)
		if !ok {
			fallbacks++
		}
		rec[i] = v
	}
	return rec, fallbacks
}

func parseField(field string) (float64, bool) {
	// Out of range values parse to an infinity, which is kept.
	if v, err := strconv.ParseFloat(field, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return v, true
	}
	if ts, err := time.Parse(TimestampLayout, field); err == nil {
		return float64(ts.Unix()), true
	}
	return 0, false
}
