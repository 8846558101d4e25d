package handlers

import (
	"errors"
	"testing"
)

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsInvalid(t *testing.T) {
	cases := []struct{ page, limit string }{
		{"0", "10"},
		{"-1", "10"},
		{"abc", "10"},
		{"1", "0"},
		{"1", "xyz"},
	}
	for _, tc := range cases {
		_, _, err := parsePaginationParams(tc.page, tc.limit)
		if err == nil {
			t.Errorf("expected error for page=%q limit=%q", tc.page, tc.limit)
			continue
		}
		if !errors.Is(err, errBadPagination) {
			t.Errorf("expected errBadPagination for page=%q limit=%q, got %v", tc.page, tc.limit, err)
		}
		if err.Error() == "" {
			t.Errorf("expected a printable error for page=%q limit=%q", tc.page, tc.limit)
		}
	}
}

func TestParseCoordinates(t *testing.T) {
	point, err := parseCoordinates("31.2", "30.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point == nil || point.Coordinates[0] != 31.2 || point.Coordinates[1] != 30.0 {
		t.Fatalf("unexpected point: %+v", point)
	}
}

func TestParseCoordinatesEmptyMeansNone(t *testing.T) {
	point, err := parseCoordinates("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point != nil {
		t.Fatalf("expected nil point, got %+v", point)
	}
}

func TestParseCoordinatesOutOfRange(t *testing.T) {
	if _, err := parseCoordinates("200", "10"); err == nil {
		t.Error("expected error for longitude 200")
	}
	if _, err := parseCoordinates("10", "-95"); err == nil {
		t.Error("expected error for latitude -95")
	}
	if _, err := parseCoordinates("east", "10"); err == nil {
		t.Error("expected error for non-numeric longitude")
	}
}

func TestSplitFormList(t *testing.T) {
	got := splitFormList(" ISO 9001, CE , ,")
	if len(got) != 2 || got[0] != "ISO 9001" || got[1] != "CE" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseFormBool(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "yes", " Yes "} {
		if !parseFormBool(truthy) {
			t.Errorf("expected %q to parse as true", truthy)
		}
	}
	for _, falsy := range []string{"", "false", "no", "1"} {
		if parseFormBool(falsy) {
			t.Errorf("expected %q to parse as false", falsy)
		}
	}
}

func TestCurrencyOrDefault(t *testing.T) {
	if got := currencyOrDefault(""); got != "DZD" {
		t.Fatalf("expected DZD default, got %q", got)
	}
	if got := currencyOrDefault(" EUR "); got != "EUR" {
		t.Fatalf("expected EUR, got %q", got)
	}
}
