package cli

import (
	stdErrors "errors"

	"github.com/canton09/aisales/errors"
)

// userError reduces an application error to the line shown to the user
func userError(err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return stdErrors.New(appErr.UserMessage())
	}
	return err
}
