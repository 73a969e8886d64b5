package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Int64Array is a list of ids. On postgres it is a native bigint[] so that
// row_to_json and to_jsonb render it as a JSON array; elsewhere it is text.
type Int64Array []int64

// Scan accepts both the postgres array literal and a JSON array.
func (a *Int64Array) Scan(value any) error {
	items, err := scanArray(value)
	if err != nil {
		return err
	}
	if items == nil {
		*a = nil
		return nil
	}
	out := make(Int64Array, 0, len(items))
	for _, s := range items {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return errors.New("Int64Array: invalid element " + s)
		}
		out = append(out, n)
	}
	*a = out
	return nil
}

// Value writes the postgres array literal, which every driver stores verbatim as text.
func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (Int64Array) GormDataType() string {
	return "text"
}

func (Int64Array) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == DriverPostgres {
		return "bigint[]"
	}
	return "text"
}

// StringArray works like Int64Array for strings (text[] on postgres).
type StringArray []string

// Scan implements the sql.Scanner interface for reading from the database.
func (a *StringArray) Scan(value any) error {
	items, err := scanArray(value)
	if err != nil {
		return err
	}
	*a = items
	return nil
}

// Value implements the driver.Valuer interface for writing to the database.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for _, r := range s {
			if r == '"' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (StringArray) GormDataType() string {
	return "text"
}

func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == DriverPostgres {
		return "text[]"
	}
	return "text"
}

func scanArray(value any) ([]string, error) {
	var str string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return nil, errors.New("array: unsupported scan type")
	}

	if strings.HasPrefix(str, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(str), &raw); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				s = string(r)
			}
			out = append(out, s)
		}
		return out, nil
	}

	if strings.HasPrefix(str, "{") && strings.HasSuffix(str, "}") {
		return parsePostgresArray(str[1 : len(str)-1]), nil
	}

	return []string{str}, nil
}

// parsePostgresArray splits the body of a postgres array literal, honoring quotes.
func parsePostgresArray(s string) []string {
	result := []string{}
	if s == "" {
		return result
	}

	var current strings.Builder
	inQuotes := false
	escaped := false

	for _, r := range s {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			escaped = true
		case '"':
			inQuotes = !inQuotes
		case ',':
			if inQuotes {
				current.WriteRune(r)
			} else {
				result = append(result, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	return append(result, current.String())
}
