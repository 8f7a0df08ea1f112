// Package report writes harvest output files: a markdown threat report per
// dork and a CSV export of search results.
package report
