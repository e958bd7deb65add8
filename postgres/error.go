package postgres

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tep-hq/playbook"
	"gorm.io/gorm"
)

var (
	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errConstraintViolation = regexp.MustCompile(`SQLSTATE (23502)`)
	errUniqViolation       = regexp.MustCompile(`SQLSTATE (23505)`)
	errUndefinedTable      = regexp.MustCompile(`SQLSTATE (42P01)`)
)

// Err translates err into one of the playbook error sentinels.
func Err(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", playbook.ErrNotExist, err)
	case errUndefinedTable.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", playbook.ErrBadConfig, err)
	case errConstraintViolation.MatchString(err.Error()),
		errUniqViolation.MatchString(err.Error()),
		errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", playbook.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", playbook.ErrUnexpected, err)
	}
}
