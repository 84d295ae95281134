package engine

import (
	"errors"
	"net/http"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/compose"
	"github.com/copyforge/copyforge/internal/selection"
)

// Exit codes for the CLI. Load-time data errors abort startup; the
// request-path errors are recoverable by fixing input or content.
const (
	ExitOK                    = 0
	ExitFailure               = 1
	ExitMalformedContent      = 2
	ExitUnknownAwarenessStage = 3
	ExitInsufficientContent   = 4
	ExitUnresolvedVariable    = 5
)

// ExitCode maps an error to the CLI exit code for its taxonomy class.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		malformedFragment *catalog.MalformedFragmentError
		malformedTemplate *assets.MalformedTemplateError
		unknownStage      *catalog.UnknownAwarenessStageError
		insufficient      *selection.InsufficientContentError
		unresolved        *compose.UnresolvedVariableError
	)

	switch {
	case errors.As(err, &malformedFragment), errors.As(err, &malformedTemplate):
		return ExitMalformedContent
	case errors.As(err, &unknownStage):
		return ExitUnknownAwarenessStage
	case errors.As(err, &insufficient):
		return ExitInsufficientContent
	case errors.As(err, &unresolved):
		return ExitUnresolvedVariable
	}
	return ExitFailure
}

// HTTPStatus maps an error to the HTTP status the server responds with.
// Classification and variable errors are the caller's to fix (400),
// missing content is an authoring gap (422), unknown asset types 404.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		unknownStage *catalog.UnknownAwarenessStageError
		unknownAsset *assets.UnknownAssetTypeError
		insufficient *selection.InsufficientContentError
		unresolved   *compose.UnresolvedVariableError
	)

	switch {
	case errors.As(err, &unknownStage), errors.As(err, &unresolved):
		return http.StatusBadRequest
	case errors.As(err, &unknownAsset):
		return http.StatusNotFound
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
