package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func documentFuncs() template.FuncMap {
	return template.FuncMap{
		"money":         formatMoney,
		"moneyRaw":      formatMoneyRaw,
		"formatDate":    formatDate,
		"formatDecimal": formatDecimal,
		"qty":           formatQuantity,
		"percent":       formatPercent,
		"title":         titleCase,
		"upper":         strings.ToUpper,
		"default":       defaultFunc,
		"add":           add,
		"mul":           mul,
		"statusClass":   statusClass,
	}
}

var currencySymbols = map[string]string{
	"USD": "$", "CAD": "$", "AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥", "CNY": "¥",
}

var titler = cases.Title(language.English)

// formatMoney: ("USD", 1234.5) -> "$1,234.50", ("CHF", 5) -> "CHF 5.00"
func formatMoney(currency string, v any) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	neg, digits := splitSign(toDecimal(v).Round(2))
	amount := groupThousands(digits.StringFixed(2))

	symbol, ok := currencySymbols[code]
	switch {
	case !ok:
		return strings.TrimSpace(code + " " + neg + amount)
	default:
		return neg + symbol + amount
	}
}

// formatMoneyRaw is formatMoney without the currency
func formatMoneyRaw(v any) string {
	neg, digits := splitSign(toDecimal(v).Round(2))
	return neg + groupThousands(digits.StringFixed(2))
}

// formatQuantity keeps only significant decimals: 10.500 -> "10.5"
func formatQuantity(v any) string {
	neg, digits := splitSign(toDecimal(v))
	return neg + groupThousands(digits.String())
}

func formatDecimal(v any, places int) string {
	return toDecimal(v).StringFixed(int32(places))
}

func formatPercent(v any) string {
	return toDecimal(v).String() + "%"
}

// formatDate prints "Jan 2, 2006"; a zero or unparseable value prints ""
func formatDate(v any) string {
	if t := toTime(v); !t.IsZero() {
		return t.Format("Jan 2, 2006")
	}
	return ""
}

func titleCase(s string) string { return titler.String(s) }

// defaultFunc mirrors {{ default "-" .Notes }}
func defaultFunc(fallback, val any) any {
	if val == nil {
		return fallback
	}
	if s, ok := val.(string); ok && s == "" {
		return fallback
	}
	return val
}

func add(a, b any) decimal.Decimal { return toDecimal(a).Add(toDecimal(b)) }
func mul(a, b any) decimal.Decimal { return toDecimal(a).Mul(toDecimal(b)) }

// statusClass: "Partially Received" -> "status-partially-received"
func statusClass(status string) string {
	return "status-" + strings.Join(strings.Fields(strings.ToLower(status)), "-")
}

func splitSign(d decimal.Decimal) (string, decimal.Decimal) {
	if d.IsNegative() {
		return "-", d.Neg()
	}
	return "", d
}

// groupThousands puts commas into the integer part of an unsigned number
func groupThousands(num string) string {
	whole, frac, hasFrac := strings.Cut(num, ".")
	if len(whole) > 3 {
		var b strings.Builder
		lead := len(whole) % 3
		if lead == 0 {
			lead = 3
		}
		b.WriteString(whole[:lead])
		for i := lead; i < len(whole); i += 3 {
			b.WriteByte(',')
			b.WriteString(whole[i : i+3])
		}
		whole = b.String()
	}
	if hasFrac {
		return whole + "." + frac
	}
	return whole
}

func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x != nil {
			return *x
		}
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

var dateLayouts = []string{time.RFC3339, time.DateOnly}

func toTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x != nil {
			return *x
		}
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
