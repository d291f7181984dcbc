package models

import "fmt"

// Error kinds recorded in run history.
const (
	ErrorKindFetch           = "fetch_error"
	ErrorKindParse           = "parse_error"
	ErrorKindElementNotFound = "element_not_found"
	ErrorKindUnknown         = "unknown_error"
)

// FetchError reports a retrieval that did not produce a usable response.
// StatusCode is 0 when the request never got a response (transport failure).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP error: %d (%s)", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a manifest body that is not a JSON list of versions.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse version manifest %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ElementNotFoundError reports that a required element is missing from the shell.
type ElementNotFoundError struct {
	Element  string
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%s element not found (selector %q)", e.Element, e.Selector)
}
