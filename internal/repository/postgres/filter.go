package postgres

import (
	"fmt"
	"strings"

	"homecrm-backend/internal/query"

	"github.com/lib/pq"
)

var contactFilterColumns = map[query.Field]string{
	query.FieldName:            "name",
	query.FieldEmails:          "emails",
	query.FieldPhones:          "phones",
	query.FieldDivisions:       "divisions",
	query.FieldLeadSource:      "lead_source",
	query.FieldContactCategory: "contact_category",
}

// RenderFilter turns a contact filter into a WHERE clause whose
// placeholders start at $1. Callers append further arguments after the
// returned ones.
func RenderFilter(f query.Filter) (string, []any, error) {
	r := &filterRenderer{}
	clause, err := r.render(f)
	if err != nil {
		return "", nil, err
	}
	return clause, r.args, nil
}

type filterRenderer struct {
	args []any
}

func (r *filterRenderer) bind(v any) string {
	r.args = append(r.args, v)
	return fmt.Sprintf("$%d", len(r.args))
}

func (r *filterRenderer) render(f query.Filter) (string, error) {
	switch f.Op {
	case "", query.OpAnd, query.OpOr:
		if len(f.Children) == 0 {
			if f.Op != query.OpOr {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		parts := make([]string, 0, len(f.Children))
		for _, child := range f.Children {
			clause, err := r.render(child)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause)
		}
		sep := " AND "
		if f.Op == query.OpOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	}

	column, ok := contactFilterColumns[f.Field]
	if !ok {
		return "", fmt.Errorf("unsupported filter field %q", f.Field)
	}
	if len(f.Values) == 0 {
		return "", fmt.Errorf("filter on %s has no values", f.Field)
	}

	switch f.Op {
	case query.OpEq:
		return fmt.Sprintf("%s = %s", column, r.bind(f.Values[0])), nil
	case query.OpAnyOf:
		if f.Field.IsArray() {
			return fmt.Sprintf("%s && %s::text[]", column, r.bind(pq.StringArray(f.Values))), nil
		}
		return fmt.Sprintf("%s = ANY(%s::text[])", column, r.bind(pq.StringArray(f.Values))), nil
	case query.OpContains:
		pattern := "%" + escapeLike(f.Values[0]) + "%"
		if f.Field.IsArray() {
			return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS v WHERE v ILIKE %s)", column, r.bind(pattern)), nil
		}
		return fmt.Sprintf("%s ILIKE %s", column, r.bind(pattern)), nil
	}
	return "", fmt.Errorf("unsupported filter op %q", f.Op)
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
