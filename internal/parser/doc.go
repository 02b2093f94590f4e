// Package parser extracts typed rows from pesdb.net and pesmaster.com pages.
//
// Pages are matched with fixed case-insensitive, dot-all, ungreedy patterns.
// Every pattern is mandatory: a page that does not match is reported as a
// *ParseError naming the missing marker, and the crawl stops rather than
// storing partial data.
package parser
