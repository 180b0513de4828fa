package metadata

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

var (
	ErrNilType   = errors.New("nil type")
	ErrNotStruct = errors.New("type is not a struct")
)

// FieldInfo describes one field declared directly on a struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	Tag       reflect.StructTag
	Exported  bool
	Anonymous bool
}

// MethodInfo describes one method in the method set of a type.
// NumIn does not count the receiver.
type MethodInfo struct {
	Name     string
	NumIn    int
	NumOut   int
	Variadic bool
}

type tagKey struct {
	t   reflect.Type
	key string
}

// indirect strips pointers so *T and T share cache entries.
func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func extractFields(t reflect.Type) ([]FieldInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "%s", t)
	}
	return lo.Times(t.NumField(), func(i int) FieldInfo {
		f := t.Field(i)
		return FieldInfo{
			Name:      f.Name,
			Type:      f.Type,
			Index:     i,
			Tag:       f.Tag,
			Exported:  f.IsExported(),
			Anonymous: f.Anonymous,
		}
	}), nil
}

// extractMethods lists the methods of the pointer type for named non-interface
// types, which is the larger of the two method sets.
func extractMethods(t reflect.Type) []MethodInfo {
	recv := 1
	if t.Kind() == reflect.Interface {
		recv = 0
	} else {
		t = reflect.PointerTo(t)
	}
	return lo.Times(t.NumMethod(), func(i int) MethodInfo {
		m := t.Method(i)
		return MethodInfo{
			Name:     m.Name,
			NumIn:    m.Type.NumIn() - recv,
			NumOut:   m.Type.NumOut(),
			Variadic: m.Type.IsVariadic(),
		}
	})
}

func extractTags(k tagKey) (map[string]string, error) {
	fields, err := extractFields(k.t)
	if err != nil {
		return nil, err
	}
	tagged := lo.Filter(fields, func(f FieldInfo, _ int) bool {
		_, ok := f.Tag.Lookup(k.key)
		return ok
	})
	return lo.Associate(tagged, func(f FieldInfo) (string, string) {
		return f.Name, f.Tag.Get(k.key)
	}), nil
}
