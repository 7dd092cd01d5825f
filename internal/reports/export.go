package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// Exporter renders report rows as CSV downloads.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// WriteTopClientesCSV encodes the ranked customer list. The header row uses
// the wire field names so exports line up with the JSON API.
func (e *Exporter) WriteTopClientesCSV(rows []TopCliente) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	header := []string{
		"id", "razon_social", "nombre_comercial", "tipo_documento",
		"numero_documento", "telefono", "email", "zona", "tipo_cliente",
		"estado", "creado_el", "frecuencia",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, c := range rows {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.RazonSocial,
			deref(c.NombreComercial),
			c.TipoDocumento,
			c.NumeroDocumento,
			c.Telefono,
			deref(c.Email),
			deref(c.Zona),
			c.TipoCliente,
			c.Estado,
			c.CreadoEl.Format("2006-01-02"),
			deref(c.Frecuencia),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZonasCSV encodes the zone breakdown with its totals as a footer row.
func (e *Exporter) WriteZonasCSV(result ZonaReportResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	header := []string{
		"zona", "nombre_zona", "total_clientes", "activos", "inactivos",
		"personas_naturales", "personas_juridicas", "empresas", "porcentaje_del_total",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, z := range result.Data {
		record := []string{
			z.Zona,
			z.NombreZona,
			strconv.Itoa(z.TotalClientes),
			strconv.Itoa(z.Activos),
			strconv.Itoa(z.Inactivos),
			strconv.Itoa(z.PersonasNaturales),
			strconv.Itoa(z.PersonasJuridicas),
			strconv.Itoa(z.Empresas),
			strconv.Itoa(z.PorcentajeDelTotal),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	footer := []string{
		"total", "", strconv.Itoa(result.Totales.General),
		strconv.Itoa(result.Totales.Activos), strconv.Itoa(result.Totales.Inactivos),
		"", "", "", "",
	}
	if err := w.Write(footer); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
