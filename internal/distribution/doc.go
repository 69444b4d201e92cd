// Package distribution builds weekly content plans.
//
// A plan gives every active team member a fixed number of catalog items per
// day for a five day week. Per-member counts come from the quota tier table,
// items are drawn at random per category, and items used on the previous
// three days of the same plan are avoided whenever the pool allows it.
//
// Everything here is free of I/O: callers load the roster and catalog,
// call Planner.Build and persist the returned Document themselves.
package distribution
