package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier abstrae pool o transacción pgx para los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner permite compartir el código de scan entre QueryRow y Query.
type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// strVal devuelve el string apuntado o "" si el puntero es nil.
func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// whereBuilder acumula condiciones AND con placeholders numerados.
// Todas las condiciones de filtro se combinan con AND; el OR interno del
// filtro de texto libre se arma como una sola condición entre paréntesis.
type whereBuilder struct {
	conds []string
	args  []any
}

// bind registra un argumento y devuelve su placeholder ($1, $2, ...).
func (b *whereBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// where añade una condición ya formateada.
func (b *whereBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// contains añade un match de substring case-insensitive sobre una columna.
func (b *whereBuilder) contains(col, value string) {
	b.where(col + " ILIKE '%' || " + b.bind(value) + " || '%'")
}

// containsAny añade un OR de substring case-insensitive sobre varias columnas,
// con un único argumento compartido.
func (b *whereBuilder) containsAny(cols []string, value string) {
	ph := b.bind(value)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " ILIKE '%' || " + ph + " || '%'"
	}
	b.where("(" + strings.Join(parts, " OR ") + ")")
}

// clause devuelve las condiciones adicionales como " AND c1 AND c2 ...".
func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " AND " + strings.Join(b.conds, " AND ")
}

// orderLimit arma ORDER BY/LIMIT/OFFSET con la columna resuelta contra la
// whitelist de la entidad; columnas desconocidas caen a la default.
func orderLimit(allowed map[string]string, sortBy string, desc bool, limit, offset int, def string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = def
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s LIMIT %d OFFSET %d", col, dir, limit, offset)
}
