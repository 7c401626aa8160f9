package backend

import (
	"math"
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	ts := float64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	type testcase struct {
		name      string
		sep       string
		line      string
		expected  Record
		fallbacks int
	}
	for _, tc := range []testcase{
		{name: "float", sep: ",", line: "3.14", expected: Record{3.14}},
		{name: "timestamp", sep: ",", line: "2024-01-01 00:00:00", expected: Record{ts}},
		{name: "garbage", sep: ",", line: "abc", expected: Record{0}, fallbacks: 1},
		{name: "empty line", sep: ",", line: "", expected: Record{0}, fallbacks: 1},
		{name: "mixed", sep: ",", line: "2024-01-01 00:00:00,1,x,-2.5e3", expected: Record{ts, 1, 0, -2500}, fallbacks: 1},
		{name: "tab separated", sep: "\t", line: "1\t2\t3", expected: Record{1, 2, 3}},
		{name: "multi character separator", sep: "::", line: "4::5", expected: Record{4, 5}},
		{name: "crlf", sep: ",", line: "7,8\r", expected: Record{7, 8}},
		{name: "empty fields", sep: ",", line: "1,,3", expected: Record{1, 0, 3}, fallbacks: 1},
		{name: "overflow", sep: ",", line: "1e400,-1e400", expected: Record{math.Inf(1), math.Inf(-1)}},
		{name: "whitespace is not a number", sep: ",", line: "1, 2", expected: Record{1, 0}, fallbacks: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec, fallbacks := ParseLineCount(tc.sep, tc.line)
			if len(rec) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d (%v)", len(tc.expected), len(rec), rec)
			}
			for i := range rec {
				if rec[i] != tc.expected[i] {
					t.Errorf("[%d] expected %v, got %v", i, tc.expected[i], rec[i])
				}
			}
			if fallbacks != tc.fallbacks {
				t.Errorf("expected %d fallbacks, got %d", tc.fallbacks, fallbacks)
			}
		})
	}
}

func TestRecordField(t *testing.T) {
	rec := Record{1, 2}
	if rec.Field(1) != 2 {
		t.Errorf("expected 2, got %v", rec.Field(1))
	}
	if rec.Field(5) != 0 {
		t.Errorf("expected out of range field to be 0, got %v", rec.Field(5))
	}
	if rec.Field(-1) != 0 {
		t.Errorf("expected negative field to be 0, got %v", rec.Field(-1))
	}
}
