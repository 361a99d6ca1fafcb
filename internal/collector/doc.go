// Package collector orchestrates taxonomy retrieval.
//
// The Collector fetches the ordered threat class list once and then,
// when property retrieval is requested, walks the classes strictly in
// order fetching each class's properties one at a time. Per-class
// failures degrade to empty results inside the client and never stop
// the walk; partial coverage is a reportable outcome.
//
// Design decision: Retrieval is intentionally sequential. The taxonomy
// is small, the ordering guarantee matters more than latency, and
// sequential calls keep the progress signal trivially monotonic with
// no synchronization.
package collector
