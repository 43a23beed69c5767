package serializer

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const emptyCell = "<empty>"

// renderTable writes v as a table. A slice of structs becomes one row per
// element with a column per exported field. Anything else is flattened into
// FIELD/VALUE rows.
func renderTable(w io.Writer, v any) error {
	rv := indirect(reflect.ValueOf(v))
	if header, rows, ok := columnar(rv); ok {
		return writeTable(w, header, rows)
	}

	flat := map[string]string{}
	flatten("", rv, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, flat[k]})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{emptyCell, ""})
	}
	return writeTable(w, []string{"FIELD", "VALUE"}, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// columnar renders slices of structs. Empty slices are left to flatten.
func columnar(rv reflect.Value) ([]string, [][]string, bool) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, nil, false
	}
	if rv.Len() == 0 {
		return nil, nil, false
	}
	elem := rv.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, nil, false
	}

	var fields []int
	var header []string
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, i)
		header = append(header, strings.ToUpper(fieldName(f)))
	}

	rows := make([][]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := indirect(rv.Index(i))
		row := make([]string, len(fields))
		for j, idx := range fields {
			if item.IsValid() {
				row[j] = cell(item.Field(idx))
			}
		}
		rows = append(rows, row)
	}
	return header, rows, true
}

func fieldName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
		return tag
	}
	return f.Name
}

func flatten(prefix string, rv reflect.Value, out map[string]string) {
	rv = indirect(rv)
	if !rv.IsValid() {
		if prefix != "" {
			out[prefix] = "<nil>"
		}
		return
	}

	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() {
				flatten(join(prefix, f.Name), rv.Field(i), out)
			}
		}
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			flatten(join(prefix, fmt.Sprint(k.Interface())), rv.MapIndex(k), out)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), rv.Index(i), out)
		}
	default:
		out[prefix] = cell(rv)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func cell(rv reflect.Value) string {
	rv = indirect(rv)
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
