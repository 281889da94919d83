package extract

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxquotes/storage/types"
)

// Trace names the strategy that resolved each side of a pair.
// Empty names mean the side was left unresolved
type Trace struct {
	Buy  string
	Sell string
}

// page is a parsed document shared by all strategies
type page struct {
	doc *goquery.Document

	body       string
	bodyLoaded bool
}

// newPage parses the raw markup once
func newPage(markup []byte) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}

	return &page{doc: doc}, nil
}

// bodyText returns the raw (uncollapsed) text of the document body
func (p *page) bodyText() string {
	if !p.bodyLoaded {
		p.body = p.doc.Find("body").Text()
		p.bodyLoaded = true
	}

	return p.body
}

// Extract produces a best-effort (buy, sell) pair from the given page markup.
// Nil or empty markup (a failed fetch) yields an all-absent pair
func Extract(markup []byte) types.PricePair {
	pair, _ := Explain(markup)

	return pair
}

// Explain is Extract, but also reports which strategy resolved each side
func Explain(markup []byte) (types.PricePair, Trace) {
	var (
		pair  types.PricePair
		trace Trace
	)

	if len(markup) == 0 {
		return pair, trace
	}

	p, err := newPage(markup)
	if err != nil {
		return pair, trace
	}

	for _, s := range strategies {
		found := s.apply(p)

		if pair.Buy == nil && found.Buy != nil {
			trace.Buy = s.name
		}

		if pair.Sell == nil && found.Sell != nil {
			trace.Sell = s.name
		}

		pair = pair.Fill(found)
		if pair.Complete() {
			break
		}
	}

	return pair, trace
}
