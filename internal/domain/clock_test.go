package domain

import (
	"errors"
	"math"
	"testing"
)

func TestParseClockTime(t *testing.T) {
	got, err := ParseClockTime("11:27:51.00")
	if err != nil {
		t.Fatalf("ParseClockTime failed: %v", err)
	}

	want := float64(11*3600 + 27*60 + 51)
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseClockTime_FractionalSeconds(t *testing.T) {
	got, err := ParseClockTime("9:05:30.25")
	if err != nil {
		t.Fatalf("ParseClockTime failed: %v", err)
	}

	want := 9*3600 + 5*60 + 30.25
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseClockTime_Invalid(t *testing.T) {
	cases := []string{"bad", "", "11:27", "11-27-51", "11:27:51:00"}

	for _, c := range cases {
		_, err := ParseClockTime(c)
		if err == nil {
			t.Errorf("expected error for %q", c)
			continue
		}
		var tfe *TimeFormatError
		if !errors.As(err, &tfe) {
			t.Errorf("expected TimeFormatError for %q, got %T", c, err)
		}
	}
}

func TestParseEDFClockTime(t *testing.T) {
	got, err := ParseEDFClockTime("23.59.30")
	if err != nil {
		t.Fatalf("ParseEDFClockTime failed: %v", err)
	}

	want := float64(23*3600 + 59*60 + 30)
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseEDFClockTime_MissingSeconds(t *testing.T) {
	got, err := ParseEDFClockTime("10.30")
	if err != nil {
		t.Fatalf("ParseEDFClockTime failed: %v", err)
	}

	want := float64(10*3600 + 30*60)
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRelativeOffset_Negative(t *testing.T) {
	if got := RelativeOffset(100, 250); got != -150 {
		t.Errorf("expected -150, got %v", got)
	}
}
