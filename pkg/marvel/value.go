package marvel

import (
	"encoding/json"
	"strconv"
)

// ValueKind classifies a field value.
type ValueKind int

const (
	// KindAbsent marks a field that was never assigned.
	KindAbsent ValueKind = iota
	// KindNull marks a field explicitly set to JSON null.
	KindNull
	// KindScalar covers strings, numbers, booleans and plain lists or objects.
	KindScalar
	// KindEntity is a nested resource payload.
	KindEntity
	// KindCollection is a nested collection payload.
	KindCollection
)

// String returns the string representation of ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindEntity:
		return "entity"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Value is a field value after classification. The zero Value is absent.
type Value struct {
	kind       ValueKind
	scalar     interface{}
	entity     Entity
	collection *Collection
}

// ScalarValue wraps a plain value. JSON numbers are normalized.
func ScalarValue(v interface{}) Value {
	if v == nil {
		return Value{kind: KindNull}
	}

	return Value{kind: KindScalar, scalar: normalize(v)}
}

// EntityValue wraps a nested entity.
func EntityValue(e Entity) Value {
	return Value{kind: KindEntity, entity: e}
}

// CollectionValue wraps a nested collection.
func CollectionValue(c *Collection) Value {
	return Value{kind: KindCollection, collection: c}
}

// Kind returns the value classification.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the field was never assigned.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNull reports whether the field was explicitly null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Present reports whether the field was assigned, including to null.
func (v Value) Present() bool { return v.kind != KindAbsent }

// Scalar returns the raw scalar, or nil for other kinds.
func (v Value) Scalar() interface{} { return v.scalar }

// Entity returns the nested entity, or nil for other kinds.
func (v Value) Entity() Entity { return v.entity }

// Collection returns the nested collection, or nil for other kinds.
func (v Value) Collection() *Collection { return v.collection }

// String returns the value as a string.
func (v Value) String() (string, bool) {
	s, ok := v.scalar.(string)

	return s, ok
}

// Int returns the value as an int64. Integral floats are accepted.
func (v Value) Int() (int64, bool) {
	if _, isString := v.scalar.(string); isString {
		return 0, false
	}

	return toInt64(v.scalar)
}

// Float returns the value as a float64.
func (v Value) Float() (float64, bool) {
	switch typed := v.scalar.(type) {
	case float64:
		return typed, true
	case int64:
		return float64(typed), true
	default:
		return 0, false
	}
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, bool) {
	b, ok := v.scalar.(bool)

	return b, ok
}

// Map returns the value as a plain object.
func (v Value) Map() (map[string]interface{}, bool) {
	m, ok := v.scalar.(map[string]interface{})

	return m, ok
}

// List returns the value as a plain list.
func (v Value) List() ([]interface{}, bool) {
	l, ok := v.scalar.([]interface{})

	return l, ok
}

// Interface converts the value back into plain data suitable for encoding.
// Nested entities and collections are exported without triggering loads.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindEntity:
		return v.entity.Base().Export()
	case KindCollection:
		return v.collection.Export()
	default:
		return nil
	}
}

// MarshalJSON encodes the exported form of the value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// classify turns a decoded JSON value into a Value, wrapping collection and
// entity payloads bound to fetcher. Collection shape wins over entity shape.
func classify(raw interface{}, fetcher *Fetcher) (Value, error) {
	if raw == nil {
		return Value{kind: KindNull}, nil
	}

	data, ok := raw.(map[string]interface{})
	if !ok {
		return ScalarValue(raw), nil
	}

	if isCollectionData(data) {
		collection, err := NewCollection(data, fetcher)
		if err != nil {
			return Value{}, err
		}

		return CollectionValue(collection), nil
	}

	if isResourceData(data) {
		resource, err := NewResource(data, fetcher, false)
		if err != nil {
			return Value{}, err
		}

		return EntityValue(registryFor(fetcher).Upgrade(resource)), nil
	}

	return ScalarValue(data), nil
}

// normalize converts json.Number leaves into int64 or float64.
func normalize(raw interface{}) interface{} {
	switch typed := raw.(type) {
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}

		f, err := typed.Float64()
		if err != nil {
			return typed.String()
		}

		return f
	case int:
		return int64(typed)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for key, value := range typed {
			out[key] = normalize(value)
		}

		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, value := range typed {
			out[i] = normalize(value)
		}

		return out
	default:
		return raw
	}
}

func toInt64(raw interface{}) (int64, bool) {
	switch typed := raw.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		if typed != float64(int64(typed)) {
			return 0, false
		}

		return int64(typed), true
	case json.Number:
		i, err := typed.Int64()

		return i, err == nil
	case string:
		i, err := strconv.ParseInt(typed, 10, 64)

		return i, err == nil
	default:
		return 0, false
	}
}
