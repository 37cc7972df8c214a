package catalog

import (
	"testing"
)

func TestParseSpecs(t *testing.T) {
	t.Run("jsonObject", func(t *testing.T) {
		specs, err := ParseSpecs(`{"Material":"Cotton","Weight":200,"Washable":true}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if specs["Material"] != "Cotton" {
			t.Fatalf("expected Material=Cotton, got %q", specs["Material"])
		}
		if specs["Weight"] != "200" {
			t.Fatalf("expected Weight=200, got %q", specs["Weight"])
		}
		if specs["Washable"] != "true" {
			t.Fatalf("expected Washable=true, got %q", specs["Washable"])
		}
	})

	t.Run("keyValueLines", func(t *testing.T) {
		specs, err := ParseSpecs("Material: Cotton\nCare: Machine wash: cold\n\nno separator line")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(specs) != 2 {
			t.Fatalf("expected 2 entries, got %d: %v", len(specs), specs)
		}
		if specs["Material"] != "Cotton" {
			t.Fatalf("expected Material=Cotton, got %q", specs["Material"])
		}
		// value keeps everything after the first colon
		if specs["Care"] != "Machine wash: cold" {
			t.Fatalf("expected full value after first colon, got %q", specs["Care"])
		}
	})

	t.Run("emptyInput", func(t *testing.T) {
		specs, err := ParseSpecs("   ")
		if err != nil || specs != nil {
			t.Fatalf("expected no specs without error, got %v / %v", specs, err)
		}
	})

	t.Run("malformedJSON", func(t *testing.T) {
		if _, err := ParseSpecs(`{"broken`); err == nil {
			t.Fatal("expected error for malformed json")
		}
	})

	t.Run("noParsableLines", func(t *testing.T) {
		specs, err := ParseSpecs("just some text\nwith no pairs")
		if err != nil || specs != nil {
			t.Fatalf("expected no specs without error, got %v / %v", specs, err)
		}
	})
}

func TestParseSizeList(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		sizes, err := ParseSizeList(`["S","M","L"]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sizes) != 3 || sizes[0] != "S" || sizes[2] != "L" {
			t.Fatalf("unexpected sizes: %v", sizes)
		}
	})

	t.Run("dedupesPreservingOrder", func(t *testing.T) {
		sizes, err := ParseSizeList(`["M","S","M"," "]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sizes) != 2 || sizes[0] != "M" || sizes[1] != "S" {
			t.Fatalf("unexpected sizes: %v", sizes)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseSizeList(`["S",`); err == nil {
			t.Fatal("expected error for malformed list")
		}
	})

	t.Run("empty", func(t *testing.T) {
		sizes, err := ParseSizeList("")
		if err != nil || sizes != nil {
			t.Fatalf("expected nil sizes without error, got %v / %v", sizes, err)
		}
	})
}

func TestParseSizeStock(t *testing.T) {
	t.Run("coercesValues", func(t *testing.T) {
		stock, err := ParseSizeStock(`{"S":5,"M":"3","L":-2,"XL":"abc"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stock["S"] != 5 || stock["M"] != 3 {
			t.Fatalf("unexpected numeric coercion: %v", stock)
		}
		if stock["L"] != 0 || stock["XL"] != 0 {
			t.Fatalf("expected negatives and garbage to clamp to zero: %v", stock)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseSizeStock(`{"S":`); err == nil {
			t.Fatal("expected error for malformed map")
		}
	})
}

func TestParseSizePricing(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		prices, err := ParseSizePricing(`{"S":10,"M":"8.50"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !prices["S"].Equal(decimalFromString(t, "10")) {
			t.Fatalf("unexpected S price: %s", prices["S"])
		}
		if !prices["M"].Equal(decimalFromString(t, "8.50")) {
			t.Fatalf("unexpected M price: %s", prices["M"])
		}
	})

	t.Run("dropsUnusableEntries", func(t *testing.T) {
		prices, err := ParseSizePricing(`{"S":0,"M":"n/a"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prices != nil {
			t.Fatalf("expected no usable prices, got %v", prices)
		}
	})

	t.Run("emptyObject", func(t *testing.T) {
		prices, err := ParseSizePricing("{}")
		if err != nil || prices != nil {
			t.Fatalf("expected nil without error, got %v / %v", prices, err)
		}
	})
}

func TestParseTags(t *testing.T) {
	tags := ParseTags(" summer, sale ,,new ")
	if len(tags) != 3 || tags[0] != "summer" || tags[1] != "sale" || tags[2] != "new" {
		t.Fatalf("unexpected tags: %v", tags)
	}
	if got := ParseTags("  "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestParseDiscount(t *testing.T) {
	cases := map[string]int{
		"25":   25,
		"-5":   0,
		"150":  100,
		"abc":  0,
		"":     0,
		"12.9": 12,
	}
	for raw, want := range cases {
		if got := ParseDiscount(raw); got != want {
			t.Fatalf("ParseDiscount(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"7":    7,
		"-3":   0,
		"nope": 0,
		"4.8":  4,
	}
	for raw, want := range cases {
		if got := ParseQuantity(raw); got != want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", raw, got, want)
		}
	}
}
