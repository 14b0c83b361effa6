package errors

import "strings"

// Category-specific error constructors for plan processing

// Planner errors

// UnsupportedPlanNodeError reports a plan node kind that a planner pass has no rule for.
// It signals an incomplete pass, not bad input, so callers abort the pass.
func UnsupportedPlanNodeError(kind string, nodeID string) *Error {
	return Newf(FeatureNotSupported, "not yet implemented: %s", kind).
		WithDetailf("Plan node %s has no symbol extraction rule.", nodeID).
		WithRoutine("ExtractSymbols")
}

// Plan document errors

// InvalidPlanDocumentError reports a serialized plan that does not describe a valid plan tree.
func InvalidPlanDocumentError(path string, format string, args ...interface{}) *Error {
	e := Newf(InvalidPlanDocument, format, args...)
	if path != "" {
		e.WithWhere(path)
	}
	return e
}

// UnknownPlanNodeKindError reports a node kind name that the plan codec does not know.
func UnknownPlanNodeKindError(kind string, path string, supported []string) *Error {
	return InvalidPlanDocumentError(path, "unknown plan node kind %q", kind).
		WithHintf("Supported kinds: %s.", strings.Join(supported, ", "))
}

// MissingPlanSourceError reports a node document without a required child.
func MissingPlanSourceError(kind string, field string, path string) *Error {
	return InvalidPlanDocumentError(path, "%s node is missing %q", kind, field)
}

// Storage errors

// IOErrorf creates an I/O error
func IOErrorf(err error, format string, args ...interface{}) *Error {
	e := Newf(IOError, format, args...)
	e.Err = err
	return e
}
