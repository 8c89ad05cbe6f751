package pipeline

import (
	stderrors "errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/asgraph/pkg/errors"
)

var (
	validate = newValidator()

	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	// LibSea attribute and qualifier names
	_ = v.RegisterValidation("libsea_ident", func(fl validator.FieldLevel) bool {
		return identRe.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct checks v against its `validate` struct tags. The first
// failing field is reported as an INVALID_CONFIG error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validation failed")
	}

	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "required_if":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required when %s", field, e.Param())
	case "max":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be one of %s, got %q", field, e.Param(), e.Value())
	case "libsea_ident":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a valid name (letters, digits, underscore; no leading digit)", field, e.Value())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
