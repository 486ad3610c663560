package instruction

import (
	"errors"
	"fmt"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

var (
	// ErrUnclosed indicates a block tag without a matching closing tag.
	ErrUnclosed = errors.New("no matching closing tag")
	// ErrStrayClose indicates a closing tag without an opening tag.
	ErrStrayClose = errors.New("closing tag without opening tag")
	// ErrEmptyBody indicates a block whose tags enclose no rows.
	ErrEmptyBody = errors.New("block encloses no rows")
	// ErrMissingParam indicates a required attribute is absent.
	ErrMissingParam = errors.New("missing required attribute")
	// ErrInvalidLastCell indicates a lastCell that is not a cell reference.
	ErrInvalidLastCell = errors.New("invalid lastCell reference")
	// ErrUnknownKind indicates a tag outside the supported set.
	ErrUnknownKind = errors.New("unknown directive")
)

func missing(name string) error {
	return fmt.Errorf("%w %q", ErrMissingParam, name)
}

// MalformedError reports one instruction that cannot be converted. The
// instruction is left untouched and the rest of the sheet is processed.
type MalformedError struct {
	Sheet string
	Cell  models.CellRef
	Kind  Kind
	// Text is the offending tag text.
	Text string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s instruction at %s!%s: %v", e.Kind, e.Sheet, e.Cell, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
