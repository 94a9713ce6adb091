package aigate

import (
	"reflect"
	"strings"
)

// ExtractionSchema steers a model toward a data shape. It is only used to
// build the prompt; the gateway never validates output against it beyond
// successful parsing.
type ExtractionSchema struct {
	// Description is a human-readable shape, e.g. `{"name": string, "age": integer}`.
	Description string
	// Example is an optional sample of the expected output.
	Example string
}

// Instruction renders the system instruction sent with an extraction request.
func (s ExtractionSchema) Instruction() string {
	var b strings.Builder
	b.WriteString("Extract the requested information and respond with JSON only.\n")
	b.WriteString("Do not wrap the JSON in markdown and do not add any explanation.\n\n")
	b.WriteString("The JSON must have this shape:\n")
	b.WriteString(s.Description)
	if s.Example != "" {
		b.WriteString("\n\nExample:\n")
		b.WriteString(s.Example)
	}
	return b.String()
}

// SchemaFor describes the shape of struct type T from its json tags.
// Field names are taken from json tags and Go kinds are mapped to JSON types.
// A `desc` struct tag is appended as an inline comment.
func SchemaFor[T any]() ExtractionSchema {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return ExtractionSchema{Description: "{}"}
	}
	return ExtractionSchema{Description: describeType(t, 0)}
}

func describeType(t reflect.Type, depth int) string {
	// Handle pointer types
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"

	case reflect.Float32, reflect.Float64:
		return "number"

	case reflect.Bool:
		return "boolean"

	case reflect.Slice, reflect.Array:
		return "[" + describeType(t.Elem(), depth) + "]"

	case reflect.Map:
		return "object"

	case reflect.Struct:
		return describeStruct(t, depth)

	default:
		return "any"
	}
}

func describeStruct(t reflect.Type, depth int) string {
	indent := strings.Repeat("  ", depth+1)
	var lines, comments []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		lines = append(lines, indent+`"`+name+`": `+describeType(field.Type, depth+1))
		comments = append(comments, field.Tag.Get("desc"))
	}

	if len(lines) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, line := range lines {
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		if comments[i] != "" {
			b.WriteString(" // " + comments[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("  ", depth) + "}")
	return b.String()
}
