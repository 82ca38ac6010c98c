package libjitsi

import (
	"reflect"

	"github.com/imdario/mergo"
)

// ptrTransformers gives mergo non-override semantics for pointer fields: a
// pointer already set on dst is left alone, and dst is only ever filled from
// a non-nil src pointer.
type ptrTransformers struct{}

func (ptrTransformers) Transformer(tp reflect.Type) func(dst, src reflect.Value) error {
	if tp.Kind() == reflect.Ptr {
		return func(dst, src reflect.Value) error {
			if dst.IsNil() && !src.IsNil() && dst.CanSet() {
				dst.Set(src)
			}
			return nil
		}
	}
	return nil
}

// applyDefaults fills zero-valued fields of dst from defaults, leaving any
// field the caller already set on dst untouched. This is the opposite merge
// direction of an overriding merge: defaults lose to whatever the caller
// already supplied.
func applyDefaults(dst, defaults interface{}) error {
	return mergo.Merge(dst, defaults, mergo.WithTransformers(ptrTransformers{}))
}

func clampLevel(level int32) int32 {
	switch {
	case level < MinLevel:
		return MinLevel
	case level > MaxLevel:
		return MaxLevel
	default:
		return level
	}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
