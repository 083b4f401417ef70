package formats

import (
	"reflect"

	"github.com/pkg/errors"
)

// Unmarshal decodes data and stores the result in the value pointed to by v.
// Struct fields are matched by their `benc` tag, like Encode; dictionary keys with no
// matching field are ignored.
func Unmarshal(data []byte, v any) error {
	val, err := Decode(data)
	if err != nil {
		return err
	}
	return Assign(val, v)
}

// Assign stores an already decoded value into the value pointed to by v.
func Assign(decoded, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("cannot decode into non-pointer")
	}
	return assign(rv.Elem(), decoded)
}

func assign(dst reflect.Value, src any) error {
	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), src)
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		dst.Set(reflect.ValueOf(src))
		return nil
	}

	switch s := src.(type) {
	case int64:
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if dst.OverflowInt(s) {
				return errors.Errorf("%d overflows %s", s, dst.Type())
			}
			dst.SetInt(s)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if s < 0 || dst.OverflowUint(uint64(s)) {
				return errors.Errorf("%d overflows %s", s, dst.Type())
			}
			dst.SetUint(uint64(s))
		case reflect.Bool:
			dst.SetBool(s != 0)
		default:
			return mismatch("integer", dst)
		}
	case string:
		switch {
		case dst.Kind() == reflect.String:
			dst.SetString(s)
		case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
			dst.SetBytes([]byte(s))
		case dst.Kind() == reflect.Array && dst.Type().Elem().Kind() == reflect.Uint8:
			if dst.Len() != len(s) {
				return errors.Errorf("string of %d bytes into %s", len(s), dst.Type())
			}
			reflect.Copy(dst, reflect.ValueOf(s))
		default:
			return mismatch("string", dst)
		}
	case []any:
		if dst.Kind() != reflect.Slice {
			return mismatch("list", dst)
		}
		out := reflect.MakeSlice(dst.Type(), len(s), len(s))
		for i, item := range s {
			if err := assign(out.Index(i), item); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
		dst.Set(out)
	case map[string]any:
		switch dst.Kind() {
		case reflect.Map:
			if dst.Type().Key().Kind() != reflect.String {
				return mismatch("dictionary", dst)
			}
			out := reflect.MakeMapWithSize(dst.Type(), len(s))
			for k, item := range s {
				ev := reflect.New(dst.Type().Elem()).Elem()
				if err := assign(ev, item); err != nil {
					return errors.Wrapf(err, "key %q", k)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
			}
			dst.Set(out)
		case reflect.Struct:
			t := dst.Type()
			for i := 0; i < t.NumField(); i++ {
				f := t.Field(i)
				if !f.IsExported() {
					continue
				}
				tag, ok := parseTag(f)
				if !ok {
					continue
				}
				item, found := s[tag.name]
				if !found {
					continue
				}
				if err := assign(dst.Field(i), item); err != nil {
					return errors.Wrapf(err, "key %q", tag.name)
				}
			}
		default:
			return mismatch("dictionary", dst)
		}
	default:
		return errors.Errorf("unexpected decoded type %T", src)
	}
	return nil
}

func mismatch(what string, dst reflect.Value) error {
	return errors.Errorf("cannot store bencode %s in %s", what, dst.Type())
}
