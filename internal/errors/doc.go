// Package errors provides typed error handling for zipdir operations.
//
// Every failure that reaches the command line carries one of the codes below,
// so callers can branch on the category without string matching.
//
// Example usage:
//
//	// Creating errors
//	err := errors.Usage("source path is required")
//	err := errors.InvalidMethod("lzma")
//
//	// Wrapping errors
//	err := errors.DestinationFailed("out.zip", ioErr)
//
//	// Checking error codes
//	if errors.Is(err, errors.CodeUsage) {
//	    // print usage text
//	}
//
//	// Stdlib compatibility
//	var zipdirErr *errors.Error
//	if errors.As(err, &zipdirErr) {
//	    fmt.Println(zipdirErr.Code, zipdirErr.Message)
//	}
package errors
