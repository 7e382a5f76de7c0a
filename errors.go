package energinet

import "fmt"

// ValidationError means the query was rejected before any request was made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + e.Reason
}

// NetworkError means the HTTP call could not complete.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError means the service answered with a non-success status.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %s", e.Status)
	}
	return fmt.Sprintf("api error: %s: %s", e.Status, e.Message)
}

// ParseError means the response body was not the expected record envelope.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
