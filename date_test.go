package familyone

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"01.01.1980":           "01.01.1980",
		" 1980-01-01 ":         "01.01.1980",
		"1980-01-01T10:00:00Z": "01.01.1980",
		"1980/12/31":           "31.12.1980",
		"March 5, 1954":        "05.03.1954",
		"1980/1/1":             "01.01.1980",
		"1980-1-1":             "01.01.1980",
		"1980.01.01":           "01.01.1980",
		"1.1.1980":             "01.01.1980",
		"Jan 1 1980":           "01.01.1980",
		"12 Feb 2006, 19:17":   "12.02.2006",
		"":                     "",
		"   ":                  "",
		"someday":              "someday",
	}

	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q): expected %q got %q", in, want, got)
		}
	}
}

func TestDisplayDateToISO(t *testing.T) {
	if got := DisplayDateToISO("24.02.1999"); got != "1999-02-24" {
		t.Fatalf("expected 1999-02-24 got %s", got)
	}
	if got := DisplayDateToISO("1999-02-24"); got != "" {
		t.Fatalf("expected empty got %s", got)
	}
}

func TestNormalizeDateKeepsFingerprintInputsAligned(t *testing.T) {
	want := NormalizeDate("01.01.1980")
	for _, in := range []string{"1980-01-01", "1980/1/1", "1980-1-1", "Jan 1 1980", "1980.01.01"} {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q): expected %q got %q", in, want, got)
		}
	}
}
