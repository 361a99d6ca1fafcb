// Package model defines the core data structures for taxonomy reports.
//
// The central type is ClassificationReport, which holds the ordered
// sequence of threat classes returned by the taxonomy service and,
// when property retrieval was requested, the per-class property lists.
//
// Design decision: We keep the model package free of network and
// rendering concerns. The tide package produces these structures and
// the report package consumes them, so the model acts as the stable
// contract between retrieval and output.
package model
