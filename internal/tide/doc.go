// Package tide provides the client for the threat-intelligence
// platform's classification taxonomy service.
//
// The client performs two authenticated read operations: fetching the
// ordered list of threat classes and fetching the properties associated
// with a single class. Both operations share the same failure contract:
// a response status outside the configured ok-set or a body missing the
// expected JSON field degrades to an empty result with a logged
// diagnostic. Only transport-level failures (connection, TLS, context
// cancellation) are returned as errors.
//
// Design decision: The graceful-empty contract mirrors the service's
// role as a reporting source. A taxonomy query that yields nothing is a
// reportable outcome, not a reason to abort the run; the report simply
// renders whatever was obtained.
package tide
