package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var zonaNombres = map[string]string{
	"norte":  "Norte (El Tambo)",
	"sur":    "Sur (Chilca)",
	"este":   "Este (San Agustín)",
	"oeste":  "Oeste (Pilcomayo)",
	"centro": "Centro (Huancayo)",
}

var tipoNombres = map[string]string{
	"persona_natural":  "Persona Natural",
	"persona_juridica": "Persona Jurídica",
	"empresa":          "Empresa",
}

var tipoHuevoNombres = map[string]string{
	"blanco": "Huevo Blanco",
	"rojo":   "Huevo Rojo",
	"mixto":  "Mixto",
}

var frecuenciaNombres = map[string]string{
	"diario":    "Diario",
	"semanal":   "Semanal",
	"quincenal": "Quincenal",
	"mensual":   "Mensual",
}

var horarioNombres = map[string]string{
	"mañana": "Mañana",
	"tarde":  "Tarde",
}

// Repository computes the reporting aggregates. Soft-deleted customers are
// excluded from every report.
type Repository interface {
	ClientesPorZona(ctx context.Context) (ZonaReportResult, error)
	ClientesPorTipoYEstado(ctx context.Context) (TipoReportResult, error)
	PreferenciasClientes(ctx context.Context) (PreferenciasReport, error)
	EvolucionMensual(ctx context.Context, meses int) ([]EvolucionMes, error)
	TopClientes(ctx context.Context, limite int) ([]TopCliente, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ClientesPorZona(ctx context.Context) (ZonaReportResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			COALESCE(zona, ''),
			COUNT(*),
			COUNT(*) FILTER (WHERE estado = 'activo'),
			COUNT(*) FILTER (WHERE estado = 'inactivo'),
			COUNT(*) FILTER (WHERE tipo_cliente = 'persona_natural'),
			COUNT(*) FILTER (WHERE tipo_cliente = 'persona_juridica'),
			COUNT(*) FILTER (WHERE tipo_cliente = 'empresa')
		FROM clientes
		WHERE estado != 'eliminado'
		GROUP BY zona
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return ZonaReportResult{}, fmt.Errorf("clientes por zona: %w", err)
	}
	defer rows.Close()

	data := []ZonaReport{}
	for rows.Next() {
		var z ZonaReport
		if err := rows.Scan(&z.Zona, &z.TotalClientes, &z.Activos, &z.Inactivos,
			&z.PersonasNaturales, &z.PersonasJuridicas, &z.Empresas); err != nil {
			return ZonaReportResult{}, fmt.Errorf("clientes por zona: %w", err)
		}
		if nombre, ok := zonaNombres[z.Zona]; ok {
			z.NombreZona = nombre
		} else if z.Zona == "" {
			z.NombreZona = "Sin zona"
		} else {
			z.NombreZona = z.Zona
		}
		data = append(data, z)
	}
	if err := rows.Err(); err != nil {
		return ZonaReportResult{}, err
	}

	var totales ZonaTotales
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE estado = 'activo'),
			COUNT(*) FILTER (WHERE estado = 'inactivo')
		FROM clientes
		WHERE estado != 'eliminado'`).Scan(&totales.General, &totales.Activos, &totales.Inactivos)
	if err != nil {
		return ZonaReportResult{}, fmt.Errorf("clientes por zona: %w", err)
	}

	for i := range data {
		if totales.General > 0 {
			data[i].PorcentajeDelTotal = roundPercent(data[i].TotalClientes, totales.General)
		}
	}
	return ZonaReportResult{Data: data, Totales: totales}, nil
}

func (r *PGRepository) ClientesPorTipoYEstado(ctx context.Context) (TipoReportResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			tipo_cliente,
			COUNT(*),
			COUNT(*) FILTER (WHERE estado = 'activo'),
			COUNT(*) FILTER (WHERE estado = 'inactivo')
		FROM clientes
		WHERE estado != 'eliminado'
		GROUP BY tipo_cliente
		ORDER BY tipo_cliente`)
	if err != nil {
		return TipoReportResult{}, fmt.Errorf("clientes por tipo: %w", err)
	}
	defer rows.Close()

	data := []TipoReport{}
	total := 0
	for rows.Next() {
		var t TipoReport
		if err := rows.Scan(&t.Tipo, &t.Total, &t.Activos, &t.Inactivos); err != nil {
			return TipoReportResult{}, fmt.Errorf("clientes por tipo: %w", err)
		}
		if nombre, ok := tipoNombres[t.Tipo]; ok {
			t.NombreTipo = nombre
		} else {
			t.NombreTipo = t.Tipo
		}
		total += t.Total
		data = append(data, t)
	}
	if err := rows.Err(); err != nil {
		return TipoReportResult{}, err
	}
	for i := range data {
		if total > 0 {
			data[i].Porcentaje = roundPercent(data[i].Total, total)
		}
	}
	return TipoReportResult{Data: data, TotalGeneral: total}, nil
}

func (r *PGRepository) PreferenciasClientes(ctx context.Context) (PreferenciasReport, error) {
	var report PreferenciasReport

	huevo, err := r.preferenceCounts(ctx, "tipo_huevo")
	if err != nil {
		return PreferenciasReport{}, err
	}
	report.TipoHuevo = []TipoHuevoSlice{}
	for _, b := range huevo {
		report.TipoHuevo = append(report.TipoHuevo, TipoHuevoSlice{
			Tipo: b.valor, Nombre: nameOr(tipoHuevoNombres, b.valor), Cantidad: b.cantidad,
		})
	}

	frecuencia, err := r.preferenceCounts(ctx, "frecuencia_compra")
	if err != nil {
		return PreferenciasReport{}, err
	}
	report.FrecuenciaCompra = []FrecuenciaSlice{}
	for _, b := range frecuencia {
		report.FrecuenciaCompra = append(report.FrecuenciaCompra, FrecuenciaSlice{
			Frecuencia: b.valor, Nombre: nameOr(frecuenciaNombres, b.valor), Cantidad: b.cantidad,
		})
	}

	horario, err := r.preferenceCounts(ctx, "horario_preferido")
	if err != nil {
		return PreferenciasReport{}, err
	}
	report.Horario = []HorarioSlice{}
	for _, b := range horario {
		report.Horario = append(report.Horario, HorarioSlice{
			Horario: b.valor, Nombre: nameOr(horarioNombres, b.valor), Cantidad: b.cantidad,
		})
	}
	return report, nil
}

type preferenceBucket struct {
	valor    string
	cantidad int
}

// preferenceCounts groups live customers by one key of the preferencias
// document. The key is bound, never spliced into the query text.
func (r *PGRepository) preferenceCounts(ctx context.Context, key string) ([]preferenceBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT preferencias->>$1, COUNT(*)
		FROM clientes
		WHERE estado != 'eliminado'
		  AND preferencias IS NOT NULL
		  AND preferencias->>$1 IS NOT NULL
		GROUP BY preferencias->>$1
		ORDER BY preferencias->>$1`, key)
	if err != nil {
		return nil, fmt.Errorf("preferencias %s: %w", key, err)
	}
	defer rows.Close()

	buckets := []preferenceBucket{}
	for rows.Next() {
		var b preferenceBucket
		if err := rows.Scan(&b.valor, &b.cantidad); err != nil {
			return nil, fmt.Errorf("preferencias %s: %w", key, err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *PGRepository) EvolucionMensual(ctx context.Context, meses int) ([]EvolucionMes, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			TO_CHAR(creado_el, 'YYYY-MM'),
			TO_CHAR(creado_el, 'Mon YYYY'),
			COUNT(*),
			COUNT(*) FILTER (WHERE tipo_cliente = 'persona_natural'),
			COUNT(*) FILTER (WHERE tipo_cliente IN ('empresa', 'persona_juridica'))
		FROM clientes
		WHERE creado_el >= CURRENT_DATE - make_interval(months => $1)
		GROUP BY 1, 2
		ORDER BY 1 ASC`, meses)
	if err != nil {
		return nil, fmt.Errorf("evolución mensual: %w", err)
	}
	defer rows.Close()

	evolucion := []EvolucionMes{}
	for rows.Next() {
		var m EvolucionMes
		if err := rows.Scan(&m.Mes, &m.MesNombre, &m.NuevosClientes, &m.NuevasPersonas, &m.NuevasEmpresas); err != nil {
			return nil, fmt.Errorf("evolución mensual: %w", err)
		}
		evolucion = append(evolucion, m)
	}
	return evolucion, rows.Err()
}

// TopClientes ranks live customers by declared purchase frequency, most
// frequent buyers first, newest first within each bucket.
func (r *PGRepository) TopClientes(ctx context.Context, limite int) ([]TopCliente, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			id, razon_social, nombre_comercial, tipo_documento, numero_documento,
			telefono, email, zona, tipo_cliente, estado, creado_el,
			preferencias->>'frecuencia_compra'
		FROM clientes
		WHERE estado != 'eliminado'
		ORDER BY
			CASE preferencias->>'frecuencia_compra'
				WHEN 'diario' THEN 1
				WHEN 'semanal' THEN 2
				WHEN 'quincenal' THEN 3
				WHEN 'mensual' THEN 4
				ELSE 5
			END,
			creado_el DESC
		LIMIT $1`, limite)
	if err != nil {
		return nil, fmt.Errorf("top clientes: %w", err)
	}
	defer rows.Close()

	top := []TopCliente{}
	for rows.Next() {
		var (
			c               TopCliente
			nombreComercial pgtype.Text
			email           pgtype.Text
			zona            pgtype.Text
			frecuencia      pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.RazonSocial, &nombreComercial, &c.TipoDocumento,
			&c.NumeroDocumento, &c.Telefono, &email, &zona, &c.TipoCliente,
			&c.Estado, &c.CreadoEl, &frecuencia); err != nil {
			return nil, fmt.Errorf("top clientes: %w", err)
		}
		if nombreComercial.Valid {
			c.NombreComercial = &nombreComercial.String
		}
		if email.Valid {
			c.Email = &email.String
		}
		if zona.Valid {
			c.Zona = &zona.String
		}
		if frecuencia.Valid {
			c.Frecuencia = &frecuencia.String
		}
		top = append(top, c)
	}
	return top, rows.Err()
}

func nameOr(names map[string]string, valor string) string {
	if nombre, ok := names[valor]; ok {
		return nombre
	}
	return valor
}

func roundPercent(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}

var _ Repository = (*PGRepository)(nil)
