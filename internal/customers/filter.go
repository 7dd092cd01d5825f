package customers

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListFilters carries the loosely-typed listing filters from the API layer.
type ListFilters struct {
	Search      string
	TipoCliente string
	Zona        string
	Estado      string
	Page        int
	Limit       int
}

func (f ListFilters) normalized() ListFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	return f
}

// predicate is the ordered, parameterized WHERE fragment shared by the
// listing query and its COUNT companion. Caller-supplied values are only
// ever bound, never concatenated into SQL text.
type predicate struct {
	conditions []string
	args       []any
}

// buildPredicate renders the dynamic filter conditions in a fixed order.
// Soft-deleted rows are excluded unless the caller explicitly asks for them
// (estado "eliminado") or for everything (estado "todos").
func buildPredicate(f ListFilters) predicate {
	var p predicate

	if f.Estado != EstadoEliminado && f.Estado != FiltroTodos {
		p.add("c.estado != $%d", EstadoEliminado)
	}
	if f.Search != "" {
		n := len(p.args) + 1
		p.conditions = append(p.conditions,
			fmt.Sprintf("(%s ILIKE $%d OR c.numero_documento ILIKE $%d)", foldedColumn("c.razon_social"), n, n))
		p.args = append(p.args, "%"+f.Search+"%")
	}
	if f.TipoCliente != "" && f.TipoCliente != FiltroTodos {
		p.add("c.tipo_cliente = $%d", f.TipoCliente)
	}
	if f.Zona != "" && f.Zona != FiltroTodas {
		p.add("c.zona = $%d", f.Zona)
	}
	if f.Estado != "" && f.Estado != FiltroTodos {
		p.add("c.estado = $%d", f.Estado)
	}
	return p
}

// foldedColumn strips accents on the SQL side so the bound pattern, already
// folded in Go, matches rows stored either way.
func foldedColumn(column string) string {
	return fmt.Sprintf("translate(%s, 'áéíóúüñÁÉÍÓÚÜÑ', 'aeiouunAEIOUUN')", column)
}

func (p *predicate) add(fragment string, value any) {
	p.conditions = append(p.conditions, fmt.Sprintf(fragment, len(p.args)+1))
	p.args = append(p.args, value)
}

func (p predicate) whereClause() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.conditions, " AND ")
}

// buildListQuery renders the paginated SELECT, the COUNT query and the full
// argument list. LIMIT and OFFSET are bound last, after every filter value,
// so the count query reuses args[:len(args)-2].
func buildListQuery(f ListFilters) (listSQL, countSQL string, args []any) {
	f = f.normalized()
	p := buildPredicate(f)
	where := p.whereClause()

	n := len(p.args)
	listSQL = fmt.Sprintf(`
		SELECT
			c.id, c.tipo_documento, c.numero_documento, c.razon_social,
			c.nombre_comercial, c.telefono, c.email, c.direccion, c.zona,
			c.tipo_cliente, c.preferencias, c.latitud, c.longitud, c.estado,
			c.creado_por, c.creado_el, c.actualizado_por, c.actualizado_el,
			u_creador.username AS creado_por_nombre,
			u_actualizador.username AS actualizado_por_nombre
		FROM clientes c
		LEFT JOIN usuarios u_creador ON c.creado_por = u_creador.id
		LEFT JOIN usuarios u_actualizador ON c.actualizado_por = u_actualizador.id
		%s
		ORDER BY c.creado_el DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)

	countSQL = fmt.Sprintf(`SELECT COUNT(*) FROM clientes c %s`, where)

	offset := (f.Page - 1) * f.Limit
	args = append(p.args, f.Limit, offset)
	return listSQL, countSQL, args
}
