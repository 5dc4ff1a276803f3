package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the struct-tag rules of v and flattens violations into
// a single readable error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fieldErr := range ve {
		parts = append(parts, fmt.Sprintf("%s failed %s", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// ValidateTemplate checks the template structure and code uniqueness.
func ValidateTemplate(t *Template) error {
	if err := ValidateStruct(t); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, t.Code, err)
	}
	seen := make(map[string]struct{})
	claim := func(kind, code string) error {
		key := kind + ":" + code
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s: duplicate %s code %q", ErrInvalidTemplate, t.Code, kind, code)
		}
		seen[key] = struct{}{}
		return nil
	}
	for _, c := range t.Categories {
		if err := claim("category", string(c.Code)); err != nil {
			return err
		}
		for _, a := range c.Aspects {
			if err := claim("aspect", a.Code); err != nil {
				return err
			}
			for _, s := range a.SubAspects {
				if err := claim("sub-aspect", s.Code); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ValidateCustomStandard checks override values are on the rating scale.
func ValidateCustomStandard(c *CustomStandard) error {
	if c == nil {
		return nil
	}
	if err := ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid custom standard %q: %w", c.Code, err)
	}
	return nil
}
