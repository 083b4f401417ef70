package formats

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type BencEncoder struct {
	wtr io.Writer
}

func NewBencoder(wtr io.Writer) *BencEncoder {
	return &BencEncoder{
		wtr: wtr,
	}
}

// Encode writes v as bencode. Supported: integers, bools (as 0/1), strings, byte slices
// and arrays, slices, maps with string keys, and structs, whose fields are keyed by their
// `benc` tag. Dictionary keys are written in sorted order.
func (b *BencEncoder) Encode(v any) error {
	return marshall(reflect.ValueOf(v), b.wtr)
}

// Marshal is Encode into a byte slice.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewBencoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// benc tag: `benc:"name[,omitempty]"`; "-" skips the field, no tag uses the field name.
type fieldTag struct {
	name      string
	omitEmpty bool
}

func parseTag(f reflect.StructField) (fieldTag, bool) {
	tag, ok := f.Tag.Lookup("benc")
	if !ok {
		return fieldTag{name: f.Name}, true
	}
	if tag == "-" {
		return fieldTag{}, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return fieldTag{name: name, omitEmpty: opts == "omitempty"}, true
}

// marshall is a subroutine used by `Encode` to do the actual marshalling
func marshall(v reflect.Value, w io.Writer) error {
	if !v.IsValid() {
		return errors.New("cannot encode nil")
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return errors.New("cannot encode nil")
		}
		return marshall(v.Elem(), w)
	case reflect.Bool:
		n := 0
		if v.Bool() {
			n = 1
		}
		_, err := fmt.Fprintf(w, "i%de", n)
		return err
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err := fmt.Fprintf(w, "i%de", v.Int())
		return err
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		_, err := fmt.Fprintf(w, "i%de", v.Uint())
		return err
	case reflect.String:
		return writeString(w, v.String())
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return writeString(w, string(b))
		}
		if _, err := io.WriteString(w, "l"); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := marshall(v.Index(i), w); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
		_, err := io.WriteString(w, "e")
		return err
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return errors.Errorf("map keys must be strings, not %s", v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		entries := make([]entry, len(keys))
		for i, k := range keys {
			entries[i] = entry{k, v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key()))}
		}
		return writeDict(w, entries)
	case reflect.Struct: // bencode does not recognize structs, fields become dictionary entries
		var entries []entry
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, ok := parseTag(f)
			if !ok || (tag.omitEmpty && v.Field(i).IsZero()) {
				continue
			}
			entries = append(entries, entry{tag.name, v.Field(i)})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		return writeDict(w, entries)
	default:
		return errors.Errorf("unsupported type %s", v.Type())
	}
}

type entry struct {
	key string
	val reflect.Value
}

func writeDict(w io.Writer, entries []entry) error {
	if _, err := io.WriteString(w, "d"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeString(w, e.key); err != nil {
			return err
		}
		if err := marshall(e.val, w); err != nil {
			return errors.Wrapf(err, "key %q", e.key)
		}
	}
	_, err := io.WriteString(w, "e")
	return err
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, strconv.Itoa(len(s))+":"); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
