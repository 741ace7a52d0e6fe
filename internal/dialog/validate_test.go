package dialog

import (
	"strings"
	"testing"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/testutil"
)

func TestValidateName(t *testing.T) {
	valid := map[string]string{
		"Food":                    "Food",
		"  Rent  ":                "Rent",
		"Ед":                      "Ед",
		strings.Repeat("a", 100): strings.Repeat("a", 100),
	}
	for input, want := range valid {
		got, err := ValidateName(input)
		testutil.AssertNoError(t, err)
		if got != want {
			t.Errorf("ValidateName(%q) = %q, want %q", input, got, want)
		}
	}

	for _, input := range []string{"", " ", "a", "  b  ", strings.Repeat("a", 101)} {
		_, err := ValidateName(input)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidName.Code)
	}
}

func TestParseDescription(t *testing.T) {
	for _, input := range []string{"", "  ", "skip", "SKIP", "-"} {
		got, err := ParseDescription(input)
		testutil.AssertNoError(t, err)
		if got != nil {
			t.Errorf("ParseDescription(%q) = %q, want nil", input, *got)
		}
	}

	got, err := ParseDescription("  coffee with Bob ")
	testutil.AssertNoError(t, err)
	if got == nil || *got != "coffee with Bob" {
		t.Errorf("unexpected description: %v", got)
	}

	_, err = ParseDescription(strings.Repeat("x", 501))
	testutil.AssertAppError(t, err, apperrors.ErrDescriptionTooLong.Code)

	_, err = ParseDescription(strings.Repeat("я", 500))
	testutil.AssertNoError(t, err)
}
