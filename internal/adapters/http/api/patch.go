package api

import (
	"fmt"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

type fieldCheck func(v any) bool

// patchRules lists the columns a PATCH may touch and how each is checked.
type patchRules map[string]fieldCheck

func requiredString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func optionalString(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

func enumOf[T interface {
	~string
	Valid() bool
}]() fieldCheck {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && T(s).Valid()
	}
}

var (
	profilePatch = patchRules{
		"full_name":     requiredString,
		"email":         optionalString,
		"phone":         optionalString,
		"date_of_birth": optionalString,
		"avatar_url":    optionalString,
		"role":          enumOf[model.UserRole](),
	}
	routinePatch = patchRules{
		"routine_type":   enumOf[model.RoutineType](),
		"title":          requiredString,
		"description":    optionalString,
		"scheduled_time": optionalString,
		"notes":          optionalString,
	}
)

// check rejects empty patches, unknown columns and badly typed values.
func (rules patchRules) check(patch map[string]any) error {
	if len(patch) == 0 {
		return fmt.Errorf("%w: empty patch", ErrBadRequest)
	}
	for k, v := range patch {
		valid, known := rules[k]
		if !known {
			return fmt.Errorf("%w: column %q cannot be updated", ErrBadRequest, k)
		}
		if !valid(v) {
			return fmt.Errorf("%w: invalid value for %q", ErrBadRequest, k)
		}
	}
	return nil
}
