// Package extract turns arbitrary exchange-house markup into a best-effort
// (buy, sell) price pair.
//
// # Number normalization
//
// Published prices use either a comma or a period as the decimal separator.
// Normalize strips everything but digits, separators and the minus sign, then:
//
//   - both separators present: the rightmost one is the decimal separator,
//     the other is thousands grouping ("1.234,56" and "1,234.56" are 1234.56)
//   - only commas: the comma is the decimal separator ("1234,56" is 1234.56)
//   - only periods, or none: the period is the decimal separator
//
// Anything that does not read as a finite number yields nil.
//
// # Strategies
//
// The page is parsed once and the strategies below run in order. A strategy only
// fills the sides that are still absent, and the chain stops as soon as both are
// resolved.
//
//  1. labeled_text: every element's collapsed, lower-cased text is scanned in
//     document order for "compra <number>" (buy) and "venta <number>" (sell).
//  2. selector: the first element of known widget classes (.compra, .buy,
//     .valor-compra, .price--buy, .buy-price and their sell counterparts).
//  3. unit_rate: "1 USD = <number>" (also "Dólar" / "Dolar", with "=", ":" or
//     "-"); the single value is used for both sides.
//  4. candidates: the first 20 distinct price-shaped numbers of the body, in
//     first-seen order, kept when strictly between 1 and 10000. The first is
//     the buy price, the second the sell price (or the first, if alone).
//
// The last strategy is a best-effort fallback and can pick up dates or counters
// on noisy pages.
package extract
