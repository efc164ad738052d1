// Package views holds read-only projections over client and gallery state:
// name search, tag search and the delivery calendar. Nothing here mutates
// its input.
package views
