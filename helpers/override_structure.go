package helpers

import (
	"reflect"
	"strings"
)

// OverrideStructure copies top level fields of override into target when
// present reports true for field's hcl attribute name. Zero values are copied too.
// Both must be pointers to same struct type. Nested structs are left alone.
func OverrideStructure(target interface{}, override interface{}, present func(attr string) bool) {
	t := reflect.ValueOf(target).Elem()
	o := reflect.ValueOf(override).Elem()
	for i := 0; i < o.NumField(); i++ {
		v := t.Field(i)
		if v.Kind() == reflect.Struct || !v.CanSet() {
			continue
		}
		name, _, _ := strings.Cut(o.Type().Field(i).Tag.Get("hcl"), ",")
		if name != "" && present(name) {
			v.Set(o.Field(i))
		}
	}
}
