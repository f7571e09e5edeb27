package cmdutil

import (
	"errors"

	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// Fail logs err under msg and returns it as an already printed ExitError
// carrying the exit code for its category.
func Fail(msg string, err error) error {
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) && exitErr.Printed {
		return err
	}

	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(msg, "err", detail.Message, "hint", detail.Hint)
	} else {
		output.Error(msg, "err", err)
	}

	return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
}
