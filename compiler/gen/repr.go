package gen

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/attrs"
)

// String returns the representation of the instance, for example
// Point(x=1, y=2). Only fields with repr enabled are listed. Classes
// without a synthesized representation render as <Point object at 0x...>.
func (i *Instance) String() string {
	var b strings.Builder
	writeInstance(&b, i, nil)
	return b.String()
}

// GoString implements fmt.GoStringer.
func (i *Instance) GoString() string { return i.String() }

func writeInstance(b *strings.Builder, i *Instance, seen map[*Instance]bool) {
	c := i.class
	if !c.cfg.Repr {
		fmt.Fprintf(b, "<%s object at %p>", c.name, i)
		return
	}
	b.WriteString(c.name)
	if seen[i] {
		b.WriteString("(...)")
		return
	}
	if seen == nil {
		seen = make(map[*Instance]bool)
	}
	seen[i] = true
	defer delete(seen, i)
	b.WriteByte('(')
	for n, a := range c.reprFields {
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.field.Name)
		b.WriteByte('=')
		if fn := a.field.ReprFunc; fn != nil {
			b.WriteString(fn(a.get(i)))
			continue
		}
		writeValue(b, a.get(i), seen)
	}
	b.WriteByte(')')
}

func writeValue(b *strings.Builder, v any, seen map[*Instance]bool) {
	switch v := v.(type) {
	case nil:
		b.WriteString("nil")
		return
	case *Instance:
		if v == nil {
			b.WriteString("nil")
			return
		}
		writeInstance(b, v, seen)
		return
	case string:
		b.WriteString(strconv.Quote(v))
		return
	case []byte:
		fmt.Fprintf(b, "[]byte(%q)", v)
		return
	case time.Time:
		b.WriteString(v.Format(time.RFC3339Nano))
		return
	case attrs.Set:
		b.WriteByte('{')
		for n, it := range v.Items() {
			if n > 0 {
				b.WriteString(", ")
			}
			writeValue(b, it, seen)
		}
		b.WriteByte('}')
		return
	case fmt.Stringer:
		b.WriteString(v.String())
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for n := range rv.Len() {
			if n > 0 {
				b.WriteString(", ")
			}
			writeValue(b, rv.Index(n).Interface(), seen)
		}
		b.WriteByte(']')
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(x, y reflect.Value) int {
			return strings.Compare(fmt.Sprint(x.Interface()), fmt.Sprint(y.Interface()))
		})
		b.WriteByte('{')
		for n, k := range keys {
			if n > 0 {
				b.WriteString(", ")
			}
			writeValue(b, k.Interface(), seen)
			b.WriteString(": ")
			writeValue(b, rv.MapIndex(k).Interface(), seen)
		}
		b.WriteByte('}')
	default:
		fmt.Fprint(b, v)
	}
}
