package dataset

import (
	"errors"
	"fmt"
	"strings"

	"digital.vasic.webuitest/pkg/logging"
)

const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"

	// CommonRoot is the only supported reference root.
	CommonRoot = "common"
)

var (
	// ErrUnsupportedReference is returned for references not
	// rooted at "common".
	ErrUnsupportedReference = errors.New("unsupported reference")

	// ErrReferenceNotFound is returned when a path segment is
	// missing or walks through a non-mapping.
	ErrReferenceNotFound = errors.New("reference path not found")
)

// Resolver replaces ${common.a.b} placeholders with values from
// a common document. It only reads the common document, so
// resolution can never cycle.
type Resolver struct {
	common Document
	logger logging.Logger
}

// NewResolver creates a Resolver over common. Unresolvable
// references are reported to logger as warnings.
func NewResolver(common Document, logger logging.Logger) *Resolver {
	return &Resolver{common: common, logger: logging.OrNull(logger)}
}

// Resolve resolves node against common without logging.
func Resolve(node any, common Document) any {
	return NewResolver(common, nil).Resolve(node)
}

// IsPlaceholder reports whether s has the ${...} form.
func IsPlaceholder(s string) bool {
	return len(s) >= len(placeholderPrefix)+len(placeholderSuffix) &&
		strings.HasPrefix(s, placeholderPrefix) &&
		strings.HasSuffix(s, placeholderSuffix)
}

// Resolve returns a resolved copy of node. Mappings and
// sequences are rebuilt, placeholders are substituted, and any
// other scalar is returned as is. A placeholder that cannot be
// resolved is returned unchanged.
func (r *Resolver) Resolve(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = r.Resolve(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = r.Resolve(val)
		}
		return out
	case string:
		if !IsPlaceholder(v) {
			return v
		}
		ref := v[len(placeholderPrefix) : len(v)-len(placeholderSuffix)]
		value, err := r.Lookup(ref)
		if err != nil {
			r.logger.Warn("unresolved test data reference",
				logging.StringField("reference", ref),
				logging.ErrorField(err),
			)
			return v
		}
		return value
	default:
		return v
	}
}

// Lookup walks the common document along a dotted reference
// such as "common.site.base_url" and returns a copy of the
// value found.
func (r *Resolver) Lookup(ref string) (any, error) {
	parts := strings.Split(ref, ".")
	if parts[0] != CommonRoot || len(r.common) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedReference, ref)
	}

	var current any = r.common
	for _, part := range parts[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, ref)
		}
		next, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, ref)
		}
		current = next
	}
	return deepCopy(current), nil
}
