package extraction

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultItemName = "Unknown Item"
	defaultFeeName  = "Unknown Tax"
)

// Normalize converts a raw model response into the canonical Result. Every
// malformed field degrades to a safe default instead of failing the request:
// a complete-but-imperfect extraction is more useful than a hard error.
func Normalize(raw *RawResult, filename string) *Result {
	result := &Result{
		FileName:  raw.FileName,
		Topics:    raw.Topics,
		Languages: KnownLanguages(raw.Languages),
		Contents:  NormalizeBill(raw),
	}

	if result.FileName == "" {
		base := filepath.Base(filename)
		result.FileName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len(result.Topics) == 0 {
		result.Topics = []string{"Receipt", "Transaction"}
	}
	if len(result.Languages) == 0 {
		result.Languages = []string{"English"}
	}
	return result
}

// NormalizeBill produces the canonical bill from a raw extraction. Item names
// default to "Unknown Item" and unparseable prices to zero; fees that parse to
// exactly zero, or not at all, are dropped entirely since they represent no
// money actually charged.
func NormalizeBill(raw *RawResult) Bill {
	items, details := raw.extraction()

	bill := Bill{Items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		price, ok := parseMoney(item.Price)
		if !ok || price < 0 {
			price = 0
		}
		bill.Items = append(bill.Items, LineItem{
			Name:  nameOrDefault(item.Name, defaultItemName),
			Price: price,
		})
	}

	if details == nil {
		bill.BillDetails.Taxes = []Fee{}
		return bill
	}

	if total, ok := parseMoney(details.TotalBill); ok {
		bill.BillDetails.TotalBill = total
	}
	bill.BillDetails.Taxes = make([]Fee, 0, len(details.Taxes))
	for _, fee := range details.Taxes {
		amount, ok := parseMoney(fee.Amount)
		if !ok || amount == 0 {
			continue
		}
		bill.BillDetails.Taxes = append(bill.BillDetails.Taxes, Fee{
			Name:   nameOrDefault(fee.Name, defaultFeeName),
			Amount: amount,
		})
	}
	return bill
}

// extraction returns the item list and bill details, preferring the nested
// ocr_contents shape over the flat one when both are present.
func (r *RawResult) extraction() ([]RawItem, *RawBillDetails) {
	if r.Contents != nil {
		return r.Contents.Items, r.Contents.BillDetails
	}
	return r.Items, r.BillDetails
}

func nameOrDefault(name *string, fallback string) string {
	if name == nil {
		return fallback
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// parseMoney coerces a raw monetary field to a number. Numbers pass through;
// strings are parsed after resolving an explicit "+ "/"- " sign token and
// stripping currency symbols and thousands separators. The second return
// value is false when the field is absent or unparseable.
func parseMoney(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case string:
		return parseMoneyString(value)
	}
	return 0, false
}

func parseMoneyString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// An explicit sign token ("- 45" / "+ 10.5") sets the sign of the
	// magnitude that follows.
	sign := 1.0
	if strings.HasPrefix(s, "- ") {
		sign = -1.0
		s = s[2:]
	} else if strings.HasPrefix(s, "+ ") {
		s = s[2:]
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '+':
			return r
		}
		// Currency symbols, thousands separators and stray whitespace
		// all drop out here.
		return -1
	}, s)

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return sign * parsed, true
}
