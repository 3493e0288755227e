package entity

// FieldType marks view fields whose value is computed by a formatter callback.
type FieldType string

const (
	FieldPlain                FieldType = ""
	FieldStorefrontURL        FieldType = "storefrontUrl"
	FieldStorefrontCourseList FieldType = "storefrontCourseList"
)

// Field is one projectable attribute of an entity view.
type Field struct {
	Name  string
	Type  FieldType
	Value any
}

// Viewable entities expose their projectable fields and the names readable by default.
type Viewable interface {
	ViewFields() []Field
	ReadableFields() []string
}

// Plain builds a field copied verbatim into the projection.
func Plain(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Computed builds a field whose projection is produced by the callback for t.
func Computed(name string, t FieldType, value any) Field {
	return Field{Name: name, Type: t, Value: value}
}
