// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExecNonZero,
//	    "helm upgrade failed",
//	    execErr,
//	    map[string]interface{}{
//	        "command":   "helm upgrade --install falcon-sensor ...",
//	        "exit_code": 1,
//	    },
//	)
package errors
