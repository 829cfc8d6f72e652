package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// poolFields es la lista de claves JSON que Pool mapea a campos propios.
var poolFields = knownJSONKeys(reflect.TypeOf(Pool{}))

// plainPool evita la recursión de (Un)MarshalJSON.
type plainPool Pool

// UnmarshalJSON decodifica los campos conocidos y guarda el resto en Extra,
// así el registro se reescribe sin perder claves que la API agregue.
func (p *Pool) UnmarshalJSON(data []byte) error {
	var known plainPool
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	known.Extra = nil
	for k, raw := range all {
		if _, ok := poolFields[k]; ok {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return err
		}
		if known.Extra == nil {
			known.Extra = make(map[string]json.RawMessage)
		}
		known.Extra[k] = buf.Bytes()
	}
	*p = Pool(known)
	return nil
}

// MarshalJSON escribe los campos conocidos en orden de declaración y después
// las claves de Extra en orden alfabético. No escapa HTML.
func (p Pool) MarshalJSON() ([]byte, error) {
	known, err := encodeNoEscape(plainPool(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if _, clash := poolFields[k]; !clash {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(known, []byte("}")))
	for _, k := range keys {
		name, err := encodeNoEscape(k)
		if err != nil {
			return nil, err
		}
		raw := p.Extra[k]
		if len(bytes.TrimSpace(raw)) == 0 {
			raw = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Field es un atributo extra de la API ya formateado para mostrar.
type Field struct {
	Key   string
	Value string
}

// ExtraFields devuelve los atributos de Extra ordenados por clave.
// Los strings se muestran sin comillas; el resto como JSON compacto.
func (p Pool) ExtraFields() []Field {
	if len(p.Extra) == 0 {
		return nil
	}
	fields := make([]Field, 0, len(p.Extra))
	for k, raw := range p.Extra {
		fields = append(fields, Field{Key: k, Value: displayRaw(raw)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

func displayRaw(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func knownJSONKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}
