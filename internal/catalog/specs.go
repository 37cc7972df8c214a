package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	dbtypes "github.com/angelmondragon/catalog-backend/pkg/db/types"
	"github.com/shopspring/decimal"
)

// Parse helpers for the free-form admin payload fields. Every helper returns
// an explicit error instead of a silent default so callers decide how to
// degrade; the service layer logs the warning and falls back to the safe
// empty value.

// ParseSpecs turns raw specification text into a normalized attribute map.
// JSON objects are accepted as-is; anything else is treated as key:value
// lines, split on the first colon. An empty result means "no specs".
func ParseSpecs(raw string) (dbtypes.StringMap, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var generic map[string]any
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&generic); err != nil {
			return nil, fmt.Errorf("parsing specs json: %w", err)
		}
		specs := make(dbtypes.StringMap, len(generic))
		for key, value := range generic {
			specs[key] = stringifyValue(value)
		}
		if len(specs) == 0 {
			return nil, nil
		}
		return specs, nil
	}

	specs := dbtypes.StringMap{}
	for _, line := range strings.Split(trimmed, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if label == "" || value == "" {
			continue
		}
		specs[label] = value
	}
	if len(specs) == 0 {
		return nil, nil
	}
	return specs, nil
}

// ParseSizeList decodes the serialized variant-label list. Duplicates and
// blank entries are dropped while preserving the submitted order.
func ParseSizeList(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var entries []any
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, fmt.Errorf("parsing sizes: %w", err)
	}

	sizes := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		label := strings.TrimSpace(stringifyValue(entry))
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		sizes = append(sizes, label)
	}
	return sizes, nil
}

// ParseSizeStock decodes the per-variant stock map. Values that fail numeric
// coercion count as zero and negatives are clamped to zero.
func ParseSizeStock(raw string) (dbtypes.IntMap, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var generic map[string]any
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("parsing size stock: %w", err)
	}

	stock := make(dbtypes.IntMap, len(generic))
	for label, value := range generic {
		stock[label] = coerceQuantity(stringifyValue(value))
	}
	return stock, nil
}

// ParseSizePricing decodes the explicit per-variant price map. Entries that
// do not resolve to a usable price are dropped so the base price fallback
// applies to them.
func ParseSizePricing(raw string) (map[string]decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "{}" {
		return nil, nil
	}

	var generic map[string]any
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("parsing size pricing: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(generic))
	for label, value := range generic {
		price, err := decimal.NewFromString(stringifyValue(value))
		if err != nil || price.IsZero() {
			continue
		}
		prices[label] = price
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return prices, nil
}

// ParseTags splits a comma-separated tag string, trimming blanks.
func ParseTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// ParseDiscount coerces the raw discount field and clamps it to 0..100.
func ParseDiscount(raw string) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	discount := int(value)
	if discount < 0 {
		return 0
	}
	if discount > 100 {
		return 100
	}
	return discount
}

// ParseQuantity coerces a raw quantity field to a non-negative integer.
func ParseQuantity(raw string) int {
	return coerceQuantity(raw)
}

func coerceQuantity(raw string) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0
	}
	return int(value)
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
