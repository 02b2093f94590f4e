// Package store holds sentinel errors shared by persistence implementations.
// It must not import database drivers or concrete clients.
package store
