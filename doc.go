// Package nestegg helps to prepare a retirement.
//
// It keeps a watch-list of stocks, the quantities held, the cash savings and
// a retirement plan, and projects the capital available at retirement:
//   - Projection: a pure computation of the savings, contributions and legacy
//     insurance at retirement, and of the monthly pension they can pay.
//   - Portfolio: the watch-list, holdings, analyses and plan, kept consistent
//     with each other and saved to a Store after every change.
//
// Analyses are fetched by an Analyzer, see the advisor package.
package nestegg
