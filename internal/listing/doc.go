// Package listing turns a list request's sort and filter query parameters into a
// composed SQL restriction and runs it as an offset-paginated query.
//
// Every listable resource registers a Definition up front: the columns it may be
// sorted on and the filters it accepts. Anything a client sends that is not in
// that allow-list is dropped before it can reach SQL.
package listing
