package customers

import (
	"strings"
	"testing"
)

func TestUpdateStatementStampsAuditColumnsOnEmptyPayload(t *testing.T) {
	statement, args := updateStatement(nil, nil, 9, 4)

	if !strings.Contains(statement, "SET actualizado_por = $1, actualizado_el = NOW()") {
		t.Fatalf("audit columns must be stamped even without payload fields:\n%s", statement)
	}
	if !strings.Contains(statement, "WHERE id = $2") {
		t.Fatalf("unexpected id placeholder:\n%s", statement)
	}
	if len(args) != 2 || args[0] != int64(9) || args[1] != int64(4) {
		t.Fatalf("expected args [updatedBy, id], got %v", args)
	}
}

func TestUpdateStatementAppendsAuditAfterFieldSets(t *testing.T) {
	sets := []string{"telefono = $1"}
	args := []any{"964999888"}
	statement, args := updateStatement(sets, args, 9, 4)

	if !strings.Contains(statement, "SET telefono = $1, actualizado_por = $2, actualizado_el = NOW()") {
		t.Fatalf("audit columns must follow the field assignments:\n%s", statement)
	}
	if !strings.Contains(statement, "WHERE id = $3") {
		t.Fatalf("unexpected id placeholder:\n%s", statement)
	}
	if len(args) != 3 || args[1] != int64(9) || args[2] != int64(4) {
		t.Fatalf("expected field value then audit args, got %v", args)
	}
}
