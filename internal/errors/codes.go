package errors

// PostgreSQL Error Codes (SQLSTATE) raised by the planner utilities.
// Based on PostgreSQL error codes: https://www.postgresql.org/docs/current/errcodes-appendix.html

// Class 0A - Feature Not Supported
const (
	FeatureNotSupported = "0A000"
)

// Class 22 - Data Exception
const (
	InvalidParameterValue = "22023"
)

// Class 42 - Syntax Error or Access Rule Violation
const (
	InvalidObjectDefinition = "42P17"
)

// Class 58 - System Error
const (
	IOError = "58030"
)

// Class XX - Internal Error
const (
	InternalError = "XX000"
)

// InvalidPlanDocument is reported when a serialized plan cannot be turned into a plan tree.
const InvalidPlanDocument = InvalidObjectDefinition
