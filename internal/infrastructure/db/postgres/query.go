package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/profitum/platform-api/internal/core/domain"
)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// sortedKeys gives statements a stable column order.
func sortedKeys(rec domain.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildSelect(table string, filters []domain.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(ident(table))

	args := make([]any, 0, len(filters))
	for i, f := range filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s = $%d", ident(f.Field), len(args))
	}
	return b.String(), args
}

func buildInsert(table string, rec domain.Record) (string, []any) {
	keys := sortedKeys(rec)
	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[k]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	return sql, args
}

func buildUpdate(table, id string, patch domain.Record) (string, []any) {
	keys := sortedKeys(patch)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		args = append(args, patch[k])
		sets[i] = fmt.Sprintf("%s = $%d", ident(k), len(args))
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		ident(table), strings.Join(sets, ", "), ident(domain.FieldID), len(args))
	return sql, args
}

func buildDelete(table, id string) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table), ident(domain.FieldID)), []any{id}
}
