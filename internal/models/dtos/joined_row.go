package dtos

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	gormModels "steel-ledger/mtrledger/internal/models/gorm"
)

const (
	InventoryPrefix = "inv_"
	MtrPrefix       = "mtr_"
)

// inventory fields that stay out of the joined view
var joinedInventorySkip = map[string]bool{
	"id":              true,
	"raw_row_data":    true,
	"import_batch_id": true,
	"created_at":      true,
}

var joinedMtrSkip = map[string]bool{
	"created_at": true,
}

// JoinedRow pairs an inventory line with the latest MTR for its heat number, if any.
type JoinedRow struct {
	ID         uint                        `json:"id"`
	JoinStatus string                      `json:"join_status"`
	Inventory  *gormModels.InventoryRecord `json:"-"`
	Mtr        *gormModels.MtrRecord       `json:"-"`
}

// Field is one flattened attribute of a joined row.
type Field struct {
	Key   string
	Value any
}

// Fields flattens the row into prefixed attributes in a stable order. MTR attributes
// are left out entirely when there is no match.
func (r JoinedRow) Fields() []Field {
	fields := []Field{
		{Key: "id", Value: r.ID},
		{Key: "join_status", Value: r.JoinStatus},
	}
	if r.Inventory != nil {
		fields = appendStruct(fields, InventoryPrefix, r.Inventory, joinedInventorySkip)
	}
	if r.Mtr != nil {
		fields = appendStruct(fields, MtrPrefix, r.Mtr, joinedMtrSkip)
	}
	return fields
}

func (r JoinedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JoinedColumns lists every key a fully matched row carries, in Fields order.
func JoinedColumns() []string {
	full := JoinedRow{Inventory: &gormModels.InventoryRecord{}, Mtr: &gormModels.MtrRecord{}}
	fields := full.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Key
	}
	return cols
}

func appendStruct(dst []Field, prefix string, v any, skip map[string]bool) []Field {
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		if name == "" || skip[name] {
			continue
		}
		dst = append(dst, Field{Key: prefix + name, Value: plain(rv.Field(i))})
	}
	return dst
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" || !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// plain dereferences pointers so nil fields become untyped nil.
func plain(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	out := v.Interface()
	if t, ok := out.(time.Time); ok && t.IsZero() {
		return nil
	}
	return out
}
