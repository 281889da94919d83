package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxquotes/storage/types"
)

const (
	StrategyLabeledText = "labeled_text"
	StrategySelector    = "selector"
	StrategyUnitRate    = "unit_rate"
	StrategyCandidates  = "candidates"
)

const (
	maxCandidates = 20

	// plausibility band for bare numbers, excludes most ids, pixel sizes and counters
	minPlausible = 1.0
	maxPlausible = 10000.0
)

var (
	whitespaceRegex = regexp.MustCompile(`[\s\p{Zs}]+`)

	buyLabelRegex  = regexp.MustCompile(`compra[:\s]*([0-9.,]+)`)
	sellLabelRegex = regexp.MustCompile(`venta[:\s]*([0-9.,]+)`)

	unitRateRegex = regexp.MustCompile(`(?i)1[\s\p{Zs}]*(?:USD|Dólar|Dolar)[\s\p{Zs}]*[=:\-][\s\p{Zs}]*([0-9.,]+)`)

	priceShapeRegex = regexp.MustCompile(`[0-9]+(?:[.,][0-9]{1,4})?`)
)

var (
	buySelectors = []string{
		".compra",
		".buy",
		".valor-compra",
		".price--buy",
		".buy-price",
	}

	sellSelectors = []string{
		".venta",
		".sell",
		".valor-venta",
		".price--sell",
		".sell-price",
	}
)

type strategy struct {
	apply func(p *page) types.PricePair
	name  string
}

// strategies is the ordered extraction chain.
// Each entry only contributes the sides that are still absent
var strategies = []strategy{
	{name: StrategyLabeledText, apply: labeledText},
	{name: StrategySelector, apply: selectorLookup},
	{name: StrategyUnitRate, apply: unitRate},
	{name: StrategyCandidates, apply: numericCandidates},
}

// labeledText scans the text of every element, in document order,
// for "compra <number>" and "venta <number>"
func labeledText(p *page) types.PricePair {
	var pair types.PricePair

	p.doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := collapse(sel.Text())
		if text == "" {
			return true
		}

		if pair.Buy == nil {
			pair.Buy = labeledValue(text, "compra", buyLabelRegex)
		}

		if pair.Sell == nil {
			pair.Sell = labeledValue(text, "venta", sellLabelRegex)
		}

		return !pair.Complete()
	})

	return pair
}

func labeledValue(text, label string, rx *regexp.Regexp) *float64 {
	if !strings.Contains(text, label) {
		return nil
	}

	m := rx.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	return Normalize(m[1])
}

// selectorLookup probes the known buy / sell widget classes
func selectorLookup(p *page) types.PricePair {
	return types.PricePair{
		Buy:  firstSelectorValue(p.doc, buySelectors),
		Sell: firstSelectorValue(p.doc, sellSelectors),
	}
}

func firstSelectorValue(doc *goquery.Document, selectors []string) *float64 {
	for _, selector := range selectors {
		if v := Normalize(doc.Find(selector).First().Text()); v != nil {
			return v
		}
	}

	return nil
}

// unitRate looks for "1 USD = <number>" and uses it for both sides
func unitRate(p *page) types.PricePair {
	m := unitRateRegex.FindStringSubmatch(p.bodyText())
	if m == nil {
		return types.PricePair{}
	}

	v := Normalize(m[1])
	if v == nil {
		return types.PricePair{}
	}

	sell := *v

	return types.PricePair{
		Buy:  v,
		Sell: &sell,
	}
}

// numericCandidates takes the first plausible numbers of the page body,
// in first-seen order, as buy and sell
func numericCandidates(p *page) types.PricePair {
	candidates := plausibleCandidates(p.bodyText())

	switch len(candidates) {
	case 0:
		return types.PricePair{}
	case 1:
		sell := candidates[0]

		return types.PricePair{
			Buy:  &candidates[0],
			Sell: &sell,
		}
	default:
		return types.PricePair{
			Buy:  &candidates[0],
			Sell: &candidates[1],
		}
	}
}

func plausibleCandidates(text string) []float64 {
	var (
		seen    = make(map[string]struct{})
		matches = make([]string, 0, maxCandidates)
	)

	for _, m := range priceShapeRegex.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}

		seen[m] = struct{}{}
		matches = append(matches, m)

		if len(matches) == maxCandidates {
			break
		}
	}

	out := make([]float64, 0, len(matches))

	for _, m := range matches {
		v := Normalize(m)
		if v == nil || *v <= minPlausible || *v >= maxPlausible {
			continue
		}

		out = append(out, *v)
	}

	return out
}

// collapse folds whitespace runs into a single space and lower-cases the text
func collapse(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " ")))
}
