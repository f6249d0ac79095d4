package lib

import "testing"

func TestValidate(t *testing.T) {
	values := map[string]string{
		"amount":          "12.50",
		"category":        "Épicerie",
		"necessity_level": "essential",
		"expense_date":    "2026-08-25",
	}
	errors := Validate(values,
		ValidateNumber("amount", 0.01, -1),
		ValidatePresence("category"),
		ValidateOneOf("necessity_level", []string{"essential", "important", "optional", "impulse"}),
		ValidateRegexp("expense_date", DateRegexp),
	)
	if len(errors) != 0 {
		t.Fatalf("expected no errors, got %v", errors)
	}
}

func TestValidateNumber(t *testing.T) {
	check := func(value string, min, max float64) []string {
		return ValidateNumber("amount", min, max)(map[string]string{"amount": value})
	}
	if errors := check("not-a-number", -1, -1); len(errors) != 1 {
		t.Fatalf("expected parse error, got %v", errors)
	}
	if errors := check("0", 0.01, -1); len(errors) != 1 {
		t.Fatalf("expected below-min error, got %v", errors)
	}
	if errors := check("200", -1, 100); len(errors) != 1 {
		t.Fatalf("expected above-max error, got %v", errors)
	}
	if errors := check("50", 0.01, 100); len(errors) != 0 {
		t.Fatalf("expected no errors, got %v", errors)
	}
}

func TestValidatePresence(t *testing.T) {
	if errors := ValidatePresence("category")(map[string]string{}); len(errors) != 1 {
		t.Fatalf("expected missing field error, got %v", errors)
	}
	if errors := ValidatePresence("category")(map[string]string{"category": "x"}); len(errors) != 0 {
		t.Fatalf("expected no errors, got %v", errors)
	}
}

func TestValidateOneOf(t *testing.T) {
	options := []string{"essential", "important"}
	if errors := ValidateOneOf("level", options)(map[string]string{"level": "luxury"}); len(errors) != 1 {
		t.Fatalf("expected error, got %v", errors)
	}
	if errors := ValidateOneOf("level", options)(map[string]string{"level": "important"}); len(errors) != 0 {
		t.Fatalf("expected no errors, got %v", errors)
	}
}

func TestDateRegexp(t *testing.T) {
	if !DateRegexp.MatchString("2026-08-25") {
		t.Fatal("expected date to match")
	}
	for _, bad := range []string{"25-08-2026", "2026/08/25", "2026-8-25", "not a date"} {
		if DateRegexp.MatchString(bad) {
			t.Fatalf("expected %q not to match", bad)
		}
	}
}
