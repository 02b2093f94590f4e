// Package crawler implements the crawl engine: the retrying fetcher and its
// failure policy, the durable page cursor, the record upserter and the two
// drivers that walk pesdb.net players and pesmaster.com leagues.
package crawler
