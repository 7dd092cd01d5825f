package customers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/avecor-crm/avecor-crm/internal/platform/db"
	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/shared"
)

const uniqueViolation = "23505"

// Repository is the persistence surface for customers. The handler layer
// depends on this interface so tests can stub it without a database.
type Repository interface {
	List(ctx context.Context, f ListFilters) ([]Customer, shared.Pagination, error)
	GetByID(ctx context.Context, id int64) (CustomerWithHistory, error)
	Create(ctx context.Context, in CustomerInput, createdBy int64) (Customer, error)
	Update(ctx context.Context, id int64, in CustomerUpdate, updatedBy int64) (Customer, error)
	ChangeStatus(ctx context.Context, id int64, estado string, updatedBy int64) (Customer, error)
	QuickSearch(ctx context.Context, term string) ([]CustomerSummary, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const customerColumns = `id, tipo_documento, numero_documento, razon_social,
	nombre_comercial, telefono, email, direccion, zona, tipo_cliente,
	preferencias, latitud, longitud, estado,
	creado_por, creado_el, actualizado_por, actualizado_el`

// List runs the filtered page and its total count in parallel; both share
// the same bound filter arguments.
func (r *PGRepository) List(ctx context.Context, f ListFilters) ([]Customer, shared.Pagination, error) {
	f = f.normalized()
	listSQL, countSQL, args := buildListQuery(f)

	var (
		items []Customer
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, listSQL, args...)
		if err != nil {
			return fmt.Errorf("listar clientes: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCustomer(rows, true)
			if err != nil {
				return fmt.Errorf("listar clientes: %w", err)
			}
			items = append(items, c)
		}
		return rows.Err()
	})
	g.Go(func() error {
		countArgs := args[:len(args)-2]
		if err := r.pool.QueryRow(gctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("contar clientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, shared.Pagination{}, err
	}
	if items == nil {
		items = []Customer{}
	}
	return items, shared.NewPagination(f.Page, f.Limit, total), nil
}

// GetByID loads one customer regardless of estado, with its change history
// newest first.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (CustomerWithHistory, error) {
	query := `
		SELECT
			c.id, c.tipo_documento, c.numero_documento, c.razon_social,
			c.nombre_comercial, c.telefono, c.email, c.direccion, c.zona,
			c.tipo_cliente, c.preferencias, c.latitud, c.longitud, c.estado,
			c.creado_por, c.creado_el, c.actualizado_por, c.actualizado_el,
			u_creador.username, u_actualizador.username
		FROM clientes c
		LEFT JOIN usuarios u_creador ON c.creado_por = u_creador.id
		LEFT JOIN usuarios u_actualizador ON c.actualizado_por = u_actualizador.id
		WHERE c.id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerWithHistory{}, httpx.ErrNotFound
		}
		return CustomerWithHistory{}, fmt.Errorf("obtener cliente %d: %w", id, err)
	}

	history, err := r.history(ctx, id)
	if err != nil {
		return CustomerWithHistory{}, err
	}
	return CustomerWithHistory{Customer: c, Historial: history}, nil
}

func (r *PGRepository) history(ctx context.Context, customerID int64) ([]HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.campo, h.valor_anterior, h.valor_nuevo, u.username, h.cambiado_el
		FROM clientes_historial h
		LEFT JOIN usuarios u ON h.cambiado_por = u.id
		WHERE h.cliente_id = $1
		ORDER BY h.cambiado_el DESC, h.id DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("historial del cliente %d: %w", customerID, err)
	}
	defer rows.Close()

	records := []HistoryRecord{}
	for rows.Next() {
		var (
			rec      HistoryRecord
			anterior pgtype.Text
			nuevo    pgtype.Text
			username pgtype.Text
		)
		if err := rows.Scan(&rec.ID, &rec.Campo, &anterior, &nuevo, &username, &rec.CambiadoEl); err != nil {
			return nil, fmt.Errorf("historial del cliente %d: %w", customerID, err)
		}
		rec.ValorAnterior = anterior.String
		rec.ValorNuevo = nuevo.String
		if username.Valid {
			rec.CambiadoPor = &username.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create inserts a new customer. Document uniqueness only applies among rows
// that are not soft-deleted; the partial unique index is the authority and a
// pre-check gives the friendlier error on the common path.
func (r *PGRepository) Create(ctx context.Context, in CustomerInput, createdBy int64) (Customer, error) {
	var created Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		taken, err := documentTaken(ctx, tx, in.NumeroDocumento, 0)
		if err != nil {
			return err
		}
		if taken {
			return httpx.ErrDuplicateDocument
		}

		estado := in.Estado
		if estado == "" {
			estado = EstadoActivo
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO clientes (
				tipo_documento, numero_documento, razon_social, nombre_comercial,
				telefono, email, direccion, zona, tipo_cliente, preferencias,
				latitud, longitud, estado, creado_por, creado_el
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
			RETURNING `+customerColumns,
			in.TipoDocumento, in.NumeroDocumento, in.RazonSocial,
			optionalTextPtr(in.NombreComercial), in.Telefono,
			optionalTextPtr(in.Email), optionalTextPtr(in.Direccion),
			optionalTextPtr(in.Zona), in.TipoCliente,
			preferencesJSON(in.Preferencias), in.Latitud, in.Longitud,
			estado, createdBy)

		created, err = scanCustomer(row, false)
		if err != nil {
			return mapWriteError(err, "crear cliente")
		}
		return nil
	})
	if err != nil {
		return Customer{}, err
	}
	return created, nil
}

// Update applies a partial update inside one transaction: load the current
// row, apply only the provided fields, and record one history entry per
// field whose value actually changed.
func (r *PGRepository) Update(ctx context.Context, id int64, in CustomerUpdate, updatedBy int64) (Customer, error) {
	var updated Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := loadCustomer(ctx, tx, id)
		if err != nil {
			return err
		}

		if in.NumeroDocumento != nil && *in.NumeroDocumento != current.NumeroDocumento {
			taken, err := documentTaken(ctx, tx, *in.NumeroDocumento, id)
			if err != nil {
				return err
			}
			if taken {
				return httpx.ErrDuplicateDocument
			}
		}

		sets, args, changes := buildUpdate(current, in)
		statement, args := updateStatement(sets, args, updatedBy, id)

		row := tx.QueryRow(ctx, statement, args...)
		updated, err = scanCustomer(row, false)
		if err != nil {
			return mapWriteError(err, fmt.Sprintf("actualizar cliente %d", id))
		}

		return insertHistory(ctx, tx, id, changes, updatedBy)
	})
	if err != nil {
		return Customer{}, err
	}
	return updated, nil
}

// ChangeStatus moves the customer to the given estado. The history entry
// records the estado the row actually had before the write, read inside the
// same transaction.
func (r *PGRepository) ChangeStatus(ctx context.Context, id int64, estado string, updatedBy int64) (Customer, error) {
	var updated Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var previous string
		if err := tx.QueryRow(ctx, `SELECT estado FROM clientes WHERE id = $1`, id).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return httpx.ErrNotFound
			}
			return fmt.Errorf("cambiar estado del cliente %d: %w", id, err)
		}

		row := tx.QueryRow(ctx, `
			UPDATE clientes
			SET estado = $1, actualizado_por = $2, actualizado_el = NOW()
			WHERE id = $3
			RETURNING `+customerColumns, estado, updatedBy, id)
		var err error
		updated, err = scanCustomer(row, false)
		if err != nil {
			return fmt.Errorf("cambiar estado del cliente %d: %w", id, err)
		}

		if previous == estado {
			return nil
		}
		return insertHistory(ctx, tx, id, []fieldChange{
			{Campo: "estado", Anterior: previous, Nuevo: estado},
		}, updatedBy)
	})
	if err != nil {
		return Customer{}, err
	}
	return updated, nil
}

// QuickSearch returns up to ten active customers matching the term against
// document number, name or phone, exact document prefix matches first.
func (r *PGRepository) QuickSearch(ctx context.Context, term string) ([]CustomerSummary, error) {
	pattern := "%" + term + "%"
	razonSocial := foldedColumn("razon_social")
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, tipo_documento, numero_documento, razon_social, telefono, zona, estado
		FROM clientes
		WHERE estado = $1
		  AND (numero_documento ILIKE $2 OR %s ILIKE $2 OR telefono ILIKE $2)
		ORDER BY
			CASE
				WHEN numero_documento ILIKE $2 THEN 0
				WHEN %s ILIKE $2 THEN 1
				ELSE 2
			END,
			razon_social
		LIMIT 10`, razonSocial, razonSocial), EstadoActivo, pattern)
	if err != nil {
		return nil, fmt.Errorf("búsqueda rápida: %w", err)
	}
	defer rows.Close()

	results := []CustomerSummary{}
	for rows.Next() {
		var (
			s    CustomerSummary
			zona pgtype.Text
		)
		if err := rows.Scan(&s.ID, &s.TipoDocumento, &s.NumeroDocumento, &s.RazonSocial, &s.Telefono, &zona, &s.Estado); err != nil {
			return nil, fmt.Errorf("búsqueda rápida: %w", err)
		}
		if zona.Valid {
			s.Zona = &zona.String
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// updateStatement appends the audit columns to the dynamic SET list. The
// stamps apply even when the payload carried no fields, so actualizado_por
// and actualizado_el always reflect the last write attempt.
func updateStatement(sets []string, args []any, updatedBy, id int64) (string, []any) {
	args = append(args, updatedBy)
	sets = append(sets, fmt.Sprintf("actualizado_por = $%d", len(args)))
	sets = append(sets, "actualizado_el = NOW()")
	args = append(args, id)

	return fmt.Sprintf(`UPDATE clientes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), customerColumns), args
}

// documentTaken reports whether another live (not soft-deleted) customer
// already holds the document number. excludeID skips the row being updated.
func documentTaken(ctx context.Context, tx pgx.Tx, numeroDocumento string, excludeID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM clientes
			WHERE numero_documento = $1 AND estado != $2 AND id != $3
		)`, numeroDocumento, EstadoEliminado, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("verificar documento: %w", err)
	}
	return exists, nil
}

func loadCustomer(ctx context.Context, tx pgx.Tx, id int64) (Customer, error) {
	row := tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM clientes WHERE id = $1`, id)
	c, err := scanCustomer(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, httpx.ErrNotFound
		}
		return Customer{}, fmt.Errorf("obtener cliente %d: %w", id, err)
	}
	return c, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, customerID int64, changes []fieldChange, changedBy int64) error {
	for _, ch := range changes {
		_, err := tx.Exec(ctx, `
			INSERT INTO clientes_historial (cliente_id, campo, valor_anterior, valor_nuevo, cambiado_por, cambiado_el)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			customerID, ch.Campo, ch.Anterior, ch.Nuevo, changedBy)
		if err != nil {
			return fmt.Errorf("registrar historial del cliente %d: %w", customerID, err)
		}
	}
	return nil
}

// mapWriteError translates the partial unique index violation into the
// business duplicate error; the index is the last word under concurrency.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return httpx.ErrDuplicateDocument
	}
	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCustomer reads one customer row. withNames expects the two joined
// username columns after the base column set.
func scanCustomer(row rowScanner, withNames bool) (Customer, error) {
	var (
		c               Customer
		nombreComercial pgtype.Text
		email           pgtype.Text
		direccion       pgtype.Text
		zona            pgtype.Text
		prefs           []byte
		latitud         pgtype.Float8
		longitud        pgtype.Float8
		actualizadoPor  pgtype.Int8
		actualizadoEl   pgtype.Timestamptz
		creadorNombre   pgtype.Text
		editorNombre    pgtype.Text
	)

	dest := []any{
		&c.ID, &c.TipoDocumento, &c.NumeroDocumento, &c.RazonSocial,
		&nombreComercial, &c.Telefono, &email, &direccion, &zona,
		&c.TipoCliente, &prefs, &latitud, &longitud, &c.Estado,
		&c.CreadoPor, &c.CreadoEl, &actualizadoPor, &actualizadoEl,
	}
	if withNames {
		dest = append(dest, &creadorNombre, &editorNombre)
	}
	if err := row.Scan(dest...); err != nil {
		return Customer{}, err
	}

	if nombreComercial.Valid {
		c.NombreComercial = &nombreComercial.String
	}
	if email.Valid {
		c.Email = &email.String
	}
	if direccion.Valid {
		c.Direccion = &direccion.String
	}
	if zona.Valid {
		c.Zona = &zona.String
	}
	if len(prefs) > 0 {
		var p Preferencias
		if err := json.Unmarshal(prefs, &p); err != nil {
			return Customer{}, fmt.Errorf("preferencias del cliente %d: %w", c.ID, err)
		}
		c.Preferencias = &p
	}
	if latitud.Valid {
		c.Latitud = &latitud.Float64
	}
	if longitud.Valid {
		c.Longitud = &longitud.Float64
	}
	if actualizadoPor.Valid {
		c.ActualizadoPor = &actualizadoPor.Int64
	}
	if actualizadoEl.Valid {
		c.ActualizadoEl = &actualizadoEl.Time
	}
	if creadorNombre.Valid {
		c.CreadoPorNombre = &creadorNombre.String
	}
	if editorNombre.Valid {
		c.ActualizadoPorNombre = &editorNombre.String
	}
	return c, nil
}

func optionalTextPtr(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
