package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies failures raised by the harvesting and insight stages.
type Kind string

const (
	KindInitialization Kind = "INITIALIZATION_FAILURE"
	KindPageLoad       Kind = "PAGE_LOAD_FAILURE"
	KindNoResults      Kind = "NO_RESULTS"
	KindExtraction     Kind = "EXTRACTION_FAILURE"
	KindAIRequest      Kind = "AI_REQUEST_FAILURE"
	KindAIParse        Kind = "AI_PARSE_FAILURE"
	KindBadRequest     Kind = "BAD_REQUEST"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Kind    Kind
	Message string
	Errors  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *AppError {
	appErr := &AppError{Kind: kind, Message: message, Err: err}
	if err != nil {
		appErr.Errors = []string{err.Error()}
	}
	return appErr
}

// NewInitializationError reports that the browser engine could not be launched.
func NewInitializationError(message string, err error) *AppError {
	return newError(KindInitialization, message, err)
}

// NewPageLoadError reports a navigation or ready-selector timeout.
func NewPageLoadError(message string, err error) *AppError {
	return newError(KindPageLoad, message, err)
}

// NewNoResultsError reports an empty search across all requested pages.
func NewNoResultsError(searchTerm string) *AppError {
	return newError(KindNoResults, fmt.Sprintf("no GitHub users found for search term %q", searchTerm), nil)
}

// NewExtractionError reports a failed DOM read or result element.
func NewExtractionError(message string, err error) *AppError {
	return newError(KindExtraction, message, err)
}

// NewAIRequestError reports a failed call to the language model.
func NewAIRequestError(err error) *AppError {
	return newError(KindAIRequest, "AI request failed", err)
}

// NewAIParseError reports a model reply that is not a JSON object.
func NewAIParseError(err error) *AppError {
	return newError(KindAIParse, "AI response parsing failed", err)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return newError(KindBadRequest, message, nil)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return newError(KindInternal, message, err)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
