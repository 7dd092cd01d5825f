package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

// zonaCatalogo fixes the known city zones with their map centroids. Zones
// absent from the data still appear with zero customers.
var zonaCatalogo = []ZonaCalor{
	{Zona: "centro", Nombre: "Centro", Lat: -12.068, Lng: -75.210},
	{Zona: "norte", Nombre: "Norte (El Tambo)", Lat: -12.058, Lng: -75.220},
	{Zona: "sur", Nombre: "Sur (Chilca)", Lat: -12.078, Lng: -75.200},
	{Zona: "este", Nombre: "Este", Lat: -12.063, Lng: -75.180},
	{Zona: "oeste", Nombre: "Oeste", Lat: -12.073, Lng: -75.230},
}

var distritoCatalogo = []DistritoSlice{
	{Zona: "centro", Distrito: "Huancayo"},
	{Zona: "norte", Distrito: "El Tambo"},
	{Zona: "sur", Distrito: "Chilca"},
	{Zona: "este", Distrito: "San Agustín"},
	{Zona: "oeste", Distrito: "Pilcomayo"},
}

var tipoNombres = map[string]string{
	"persona_natural":  "Persona Natural",
	"persona_juridica": "Persona Jurídica",
	"empresa":          "Empresa",
}

// Repository computes the dashboard aggregates straight from PostgreSQL.
type Repository interface {
	KPIs(ctx context.Context) (KPIs, error)
	DistribucionPorTipo(ctx context.Context) ([]TipoSlice, error)
	MapaCalorZonas(ctx context.Context) (MapaCalor, error)
	TendenciasMensuales(ctx context.Context, meses int) (Tendencias, error)
	DistribucionPorDistrito(ctx context.Context) ([]DistritoSlice, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) KPIs(ctx context.Context) (KPIs, error) {
	var k KPIs
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE estado = 'activo'),
			COUNT(*) FILTER (WHERE estado = 'inactivo'),
			COUNT(*) FILTER (WHERE estado = 'eliminado'),
			COUNT(*) FILTER (WHERE DATE(creado_el) = CURRENT_DATE)
		FROM clientes`).Scan(
		&k.TotalClientes, &k.ClientesActivos, &k.ClientesInactivos,
		&k.ClientesEliminados, &k.NuevosHoy)
	if err != nil {
		return KPIs{}, fmt.Errorf("kpis del dashboard: %w", err)
	}
	if k.TotalClientes > 0 {
		k.PorcentajeActivos = roundPercent(k.ClientesActivos, k.TotalClientes)
	}
	return k, nil
}

func (r *PGRepository) DistribucionPorTipo(ctx context.Context) ([]TipoSlice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tipo_cliente, COUNT(*)
		FROM clientes
		WHERE estado != 'eliminado'
		GROUP BY tipo_cliente
		ORDER BY tipo_cliente`)
	if err != nil {
		return nil, fmt.Errorf("distribución por tipo: %w", err)
	}
	defer rows.Close()

	slices := []TipoSlice{}
	total := 0
	for rows.Next() {
		var s TipoSlice
		if err := rows.Scan(&s.Tipo, &s.Cantidad); err != nil {
			return nil, fmt.Errorf("distribución por tipo: %w", err)
		}
		if nombre, ok := tipoNombres[s.Tipo]; ok {
			s.Nombre = nombre
		} else {
			s.Nombre = s.Tipo
		}
		total += s.Cantidad
		slices = append(slices, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range slices {
		if total > 0 {
			slices[i].Porcentaje = roundPercent(slices[i].Cantidad, total)
		}
	}
	return slices, nil
}

func (r *PGRepository) MapaCalorZonas(ctx context.Context) (MapaCalor, error) {
	counts, err := r.zoneCounts(ctx)
	if err != nil {
		return MapaCalor{}, err
	}

	maxClientes := 1
	total := 0
	for _, n := range counts {
		total += n
		if n > maxClientes {
			maxClientes = n
		}
	}

	zonas := make([]ZonaCalor, len(zonaCatalogo))
	copy(zonas, zonaCatalogo)
	top := zonas[0]
	for i := range zonas {
		n := counts[zonas[i].Zona]
		zonas[i].Clientes = n
		if n > 0 {
			zonas[i].Intensidad = float64(n) / float64(maxClientes)
		}
		zonas[i].NivelCalor = int(math.Ceil(float64(n) / float64(maxClientes) * 5))
		if zonas[i].NivelCalor < 1 {
			zonas[i].NivelCalor = 1
		}
		if zonas[i].Clientes > top.Clientes {
			top = zonas[i]
		}
	}

	return MapaCalor{
		Zonas:              zonas,
		TotalClientesZonas: total,
		ZonaConMasClientes: top,
	}, nil
}

// TendenciasMensuales pairs customers created per month against customers
// that moved to inactivo or eliminado in the same month.
func (r *PGRepository) TendenciasMensuales(ctx context.Context, meses int) (Tendencias, error) {
	nuevos, err := r.pool.Query(ctx, `
		SELECT
			TO_CHAR(creado_el, 'YYYY-MM'),
			TO_CHAR(creado_el, 'Mon YYYY'),
			COUNT(*)
		FROM clientes
		WHERE creado_el >= CURRENT_DATE - make_interval(months => $1)
		GROUP BY 1, 2
		ORDER BY 1 ASC`, meses)
	if err != nil {
		return Tendencias{}, fmt.Errorf("tendencias mensuales: %w", err)
	}
	defer nuevos.Close()

	mensual := []TendenciaMes{}
	for nuevos.Next() {
		var m TendenciaMes
		if err := nuevos.Scan(&m.Mes, &m.MesNombre, &m.Nuevos); err != nil {
			return Tendencias{}, fmt.Errorf("tendencias mensuales: %w", err)
		}
		mensual = append(mensual, m)
	}
	if err := nuevos.Err(); err != nil {
		return Tendencias{}, err
	}

	perdidos, err := r.pool.Query(ctx, `
		SELECT TO_CHAR(actualizado_el, 'YYYY-MM'), COUNT(*)
		FROM clientes
		WHERE estado IN ('inactivo', 'eliminado')
		  AND actualizado_el >= CURRENT_DATE - make_interval(months => $1)
		GROUP BY 1
		ORDER BY 1 ASC`, meses)
	if err != nil {
		return Tendencias{}, fmt.Errorf("tendencias mensuales: %w", err)
	}
	defer perdidos.Close()

	perdidosPorMes := map[string]int{}
	for perdidos.Next() {
		var (
			mes string
			n   int
		)
		if err := perdidos.Scan(&mes, &n); err != nil {
			return Tendencias{}, fmt.Errorf("tendencias mensuales: %w", err)
		}
		perdidosPorMes[mes] = n
	}
	if err := perdidos.Err(); err != nil {
		return Tendencias{}, err
	}

	var totales TotalesPeriodo
	for i := range mensual {
		mensual[i].Perdidos = perdidosPorMes[mensual[i].Mes]
		mensual[i].SaldoNeto = mensual[i].Nuevos - mensual[i].Perdidos
		totales.Nuevos += mensual[i].Nuevos
		totales.Perdidos += mensual[i].Perdidos
	}
	totales.CrecimientoNeto = totales.Nuevos - totales.Perdidos
	if totales.Nuevos > 0 {
		totales.TasaCrecimiento = roundPercent(totales.CrecimientoNeto, totales.Nuevos)
	}

	return Tendencias{Mensual: mensual, TotalesPeriodo: totales}, nil
}

func (r *PGRepository) DistribucionPorDistrito(ctx context.Context) ([]DistritoSlice, error) {
	counts, err := r.zoneCounts(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	distritos := make([]DistritoSlice, len(distritoCatalogo))
	copy(distritos, distritoCatalogo)
	for i := range distritos {
		distritos[i].Clientes = counts[distritos[i].Zona]
		if total > 0 {
			distritos[i].Porcentaje = roundPercent(distritos[i].Clientes, total)
		}
	}
	return distritos, nil
}

func (r *PGRepository) zoneCounts(ctx context.Context) (map[string]int, error) {
	zonas := make([]string, len(zonaCatalogo))
	for i, z := range zonaCatalogo {
		zonas[i] = z.Zona
	}
	rows, err := r.pool.Query(ctx, `
		SELECT zona, COUNT(*)
		FROM clientes
		WHERE estado != 'eliminado' AND zona = ANY($1)
		GROUP BY zona`, zonas)
	if err != nil {
		return nil, fmt.Errorf("conteo por zona: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			zona string
			n    int
		)
		if err := rows.Scan(&zona, &n); err != nil {
			return nil, fmt.Errorf("conteo por zona: %w", err)
		}
		counts[zona] = n
	}
	return counts, rows.Err()
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

var _ Repository = (*PGRepository)(nil)
