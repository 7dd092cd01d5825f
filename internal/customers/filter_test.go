package customers

import (
	"strings"
	"testing"
)

func TestBuildPredicateExcludesDeletedFirst(t *testing.T) {
	p := buildPredicate(ListFilters{Estado: EstadoActivo, TipoCliente: "empresa", Zona: "norte"})

	if len(p.conditions) != 4 {
		t.Fatalf("expected 4 conditions, got %d: %v", len(p.conditions), p.conditions)
	}
	if p.conditions[0] != "c.estado != $1" {
		t.Fatalf("expected soft-delete exclusion first, got %q", p.conditions[0])
	}
	if p.args[0] != EstadoEliminado {
		t.Fatalf("expected first arg to be %q, got %v", EstadoEliminado, p.args[0])
	}
}

func TestBuildPredicateSearchBindsSingleParam(t *testing.T) {
	p := buildPredicate(ListFilters{Search: "acme", Estado: EstadoActivo})

	found := false
	for _, cond := range p.conditions {
		if strings.Contains(cond, "c.razon_social") &&
			strings.Contains(cond, "numero_documento ILIKE $2") &&
			strings.Count(cond, "ILIKE $2") == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected both search columns to share one placeholder: %v", p.conditions)
	}
	if len(p.args) != 3 {
		t.Fatalf("expected 3 args (exclusion, search, estado), got %d", len(p.args))
	}
	if p.args[1] != "%acme%" {
		t.Fatalf("expected wrapped search term, got %v", p.args[1])
	}
}

func TestBuildPredicateSentinelsLiftFilters(t *testing.T) {
	p := buildPredicate(ListFilters{Estado: FiltroTodos, TipoCliente: FiltroTodos, Zona: FiltroTodas})
	if len(p.conditions) != 0 {
		t.Fatalf("sentinel values must not filter, got %v", p.conditions)
	}
}

func TestBuildPredicateDeletedViewSkipsExclusion(t *testing.T) {
	p := buildPredicate(ListFilters{Estado: EstadoEliminado})
	if len(p.conditions) != 1 {
		t.Fatalf("expected only the estado equality, got %v", p.conditions)
	}
	if p.conditions[0] != "c.estado = $1" || p.args[0] != EstadoEliminado {
		t.Fatalf("expected estado = eliminado, got %q with %v", p.conditions[0], p.args[0])
	}
}

func TestBuildListQueryBindsLimitAndOffsetLast(t *testing.T) {
	listSQL, countSQL, args := buildListQuery(ListFilters{Estado: EstadoActivo, Page: 3, Limit: 10})

	if want := len(args) - 2; args[want] != 10 {
		t.Fatalf("expected limit 10 at position %d, got %v", want, args[want])
	}
	if got := args[len(args)-1]; got != 20 {
		t.Fatalf("expected offset 20 for page 3, got %v", got)
	}
	if !strings.Contains(listSQL, "LIMIT $3 OFFSET $4") {
		t.Fatalf("expected limit/offset placeholders after filter args:\n%s", listSQL)
	}
	if strings.Contains(countSQL, "LIMIT") {
		t.Fatalf("count query must not page:\n%s", countSQL)
	}
}

func TestNormalizedCapsPageSize(t *testing.T) {
	f := ListFilters{Page: 0, Limit: 500}.normalized()
	if f.Page != 1 {
		t.Fatalf("expected page 1, got %d", f.Page)
	}
	if f.Limit != maxPageSize {
		t.Fatalf("expected limit capped at %d, got %d", maxPageSize, f.Limit)
	}

	f = ListFilters{}.normalized()
	if f.Limit != defaultPageSize {
		t.Fatalf("expected default limit %d, got %d", defaultPageSize, f.Limit)
	}
}

// The bound pattern is folded in Go, so the stored column must be folded in
// SQL too or a search for the exact stored value ("Pérez") would miss the row.
func TestBuildPredicateFoldsStoredColumn(t *testing.T) {
	p := buildPredicate(ListFilters{Search: "Perez", Estado: EstadoActivo})

	found := false
	for _, cond := range p.conditions {
		if strings.Contains(cond, "translate(c.razon_social") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected razon_social to be accent-folded in SQL: %v", p.conditions)
	}
}

func TestFoldedColumnCoversBothCases(t *testing.T) {
	expr := foldedColumn("razon_social")
	if !strings.Contains(expr, "'áéíóúüñÁÉÍÓÚÜÑ'") || !strings.Contains(expr, "'aeiouunAEIOUUN'") {
		t.Fatalf("expected upper and lower case accent mapping, got %q", expr)
	}
}

func TestFoldSearchTermStripsAccents(t *testing.T) {
	if got := foldSearchTerm("  Pérez Ñandú  "); got != "Perez Nandu" {
		t.Fatalf("expected folded term, got %q", got)
	}
	if got := foldSearchTerm("   "); got != "" {
		t.Fatalf("expected empty term, got %q", got)
	}
}
