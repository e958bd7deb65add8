package req

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"
	"github.com/tep-hq/playbook"
)

// queryParamDecoder decodes url.Values, whether from a query string or a form post.
type queryParamDecoder struct {
	dec *schema.Decoder
}

func newQueryParamDecoder() queryParamDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return queryParamDecoder{dec}
}

func (d queryParamDecoder) decode(structPtr any, vals url.Values) error {
	v := reflect.ValueOf(structPtr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: decode called with %T, not a pointer to a struct", playbook.ErrUnexpected, structPtr)
	}

	if err := d.dec.Decode(structPtr, vals); err != nil {
		return translateDecoderError(err)
	}

	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// others are mismatches between the submitted values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	// schema wraps every field error in a MultiError.
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", playbook.ErrNotValid, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			// Index is -1 for non-slice values.
			ve := ValidationError{
				Field: err.Key,
				Got:   fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule:  "must be " + err.Type.String(),
			}

			validErrs = append(validErrs, ve)

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate tags to set "required" fields, not schema`, playbook.ErrBadConfig)

		case schema.UnknownKeyError:
			ve := ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			}

			validErrs = append(validErrs, ve)

		default:
			// A field lacking a registered converter only errors once a value arrives for it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", playbook.ErrBadConfig)
			}

			return fmt.Errorf("%w: %s", playbook.ErrUnexpected, err)
		}
	}

	return validErrs
}
