package repository

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/okian/visitas/internal/domain/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names one column of the visits sheet.
type Field string

// Schema fields.
const (
	FieldMarker   Field = "marker"
	FieldPerson   Field = "person"
	FieldCenter   Field = "center"
	FieldDate     Field = "date"
	FieldHour     Field = "hour"
	FieldDuration Field = "duration"
)

// Fields lists every field in sheet order.
var Fields = []Field{FieldMarker, FieldPerson, FieldCenter, FieldDate, FieldHour, FieldDuration}

// DefaultAliases are the header names accepted for each field. Matching
// ignores case, accents and repeated spaces.
var DefaultAliases = map[Field][]string{
	FieldMarker:   {"MARCA", "MARCA TEMPORAL", "MARKER"},
	FieldPerson:   {"PERSONA", "CONSULTORA", "NOMBRE"},
	FieldCenter:   {"CENTRO", "CENTRO EDUCATIVO"},
	FieldDate:     {"FECHA", "FECHA VISITA"},
	FieldHour:     {"HORA", "HORA INICIO", "HORA DE INICIO"},
	FieldDuration: {"DURACION", "DURACIÓN"},
}

// Schema maps header names onto fields.
type Schema struct {
	aliases map[Field][]string
}

// NewSchema returns the default schema with the given per-field alias lists
// replacing the defaults. Keys must be field names.
func NewSchema(overrides map[string][]string) (Schema, error) {
	s := Schema{aliases: make(map[Field][]string, len(Fields))}
	for f, names := range DefaultAliases {
		s.aliases[f] = normalizeAll(names)
	}
	for key, names := range overrides {
		f := Field(strings.ToLower(strings.TrimSpace(key)))
		if _, ok := DefaultAliases[f]; !ok {
			return Schema{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		s.aliases[f] = normalizeAll(names)
	}
	return s, nil
}

// DefaultSchema is NewSchema without overrides.
func DefaultSchema() Schema {
	s, _ := NewSchema(nil)
	return s
}

// Required reports whether a sheet must carry the field.
func (f Field) Required() bool { return f != FieldMarker }

// Binding is the column index of each field in one sheet, -1 when absent.
type Binding map[Field]int

// Bind locates every field in header. A required field without a matching
// column yields ErrSchemaMismatch naming the missing fields.
func (s Schema) Bind(header []string) (Binding, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := byName[key]; !seen && key != "" {
			byName[key] = i
		}
	}

	b := make(Binding, len(Fields))
	var missing []string
	for _, f := range Fields {
		b[f] = -1
		for _, alias := range s.aliases[f] {
			if idx, ok := byName[alias]; ok {
				b[f] = idx
				break
			}
		}
		if b[f] < 0 && f.Required() {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return b, nil
}

// Row picks the bound cells out of one sheet row. Short rows yield empty
// strings for the trailing fields.
func (b Binding) Row(cells []string) model.RawRow {
	get := func(f Field) string {
		idx, ok := b[f]
		if !ok || idx < 0 || idx >= len(cells) {
			return ""
		}
		return cells[idx]
	}
	return model.RawRow{
		Marker:   get(FieldMarker),
		Person:   get(FieldPerson),
		Center:   get(FieldCenter),
		Date:     get(FieldDate),
		Hour:     get(FieldHour),
		Duration: get(FieldDuration),
	}
}

// normalizeHeader folds accents, upper-cases and collapses whitespace.
// Chained transformers carry state, so one is built per call.
func normalizeHeader(h string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, h)
	if err != nil {
		folded = h
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if k := normalizeHeader(n); k != "" {
			out = append(out, k)
		}
	}
	return out
}
