package mount

import (
	"fmt"

	"github.com/conflang/go-conflang/debug"
	"github.com/conflang/go-conflang/schema"
)

// validErrf records a validation error on the host context and returns it
// wrapped in ErrValidation.
func validErrf(ext *schema.ExtensionInstance, path, msg string, args ...any) error {
	m := fmt.Sprintf(msg, args...)
	saveErr(ext, path, m)
	return fmt.Errorf("%w: %s", ErrValidation, m)
}

// internalErrf reports a caller contract violation.
func internalErrf(ext *schema.ExtensionInstance, msg string, args ...any) error {
	m := fmt.Sprintf(msg, args...)
	saveErr(ext, "", m)
	return fmt.Errorf("%w: %s", ErrInternal, m)
}

func saveErr(ext *schema.ExtensionInstance, path, msg string) {
	if ext != nil && ext.Module != nil && ext.Module.Ctx != nil {
		ext.Module.Ctx.SaveError(path, msg)
	}
	if debug.Mount() {
		debug.Logf("schema mount: %s (%s)\n", msg, path)
	}
}
