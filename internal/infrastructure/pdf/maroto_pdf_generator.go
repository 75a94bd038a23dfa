// Package pdf implementa la generación de la representación impresa de la
// factura electrónica SUNAT.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + Dirección  │  Recuadro RUC + Serie   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ADQUIRIENTE: Nombre + Doc + Fecha de emisión               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IGV | Importe          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LEYENDA: SON: ... CON 00/100 SOLES                          │
//	│  TOTALES: Gravadas / IGV / ICBPER / IMPORTE TOTAL            │
//	│  FOOTER: QR + hash de la firma + leyenda legal               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF de la factura y devuelve sus bytes. hash es el
// digest de la firma del XML; puede ser vacío si aún no se envió a SUNAT.
func (g *MarotoPDFGenerator) Generate(doc *domsunat.Documento, company *entity.Company, hash string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura Electrónica "+doc.Serie+"-"+doc.Correlativo, true).
		WithAuthor(doc.Company.RazonSocial, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(adquirienteRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(doc.Details) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(leyendaRow(doc))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc, company, hash) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social y domicilio (izq), recuadro RUC + serie (der).
func headerRow(doc *domsunat.Documento) core.Row {
	e := doc.Company
	return row.New(22).Add(
		col.New(7).Add(
			text.New(e.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(e.Direccion.Direccion, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%s - %s - %s",
				e.Direccion.Distrito, e.Direccion.Provincia, e.Direccion.Departamento,
			), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("R.U.C. "+e.Ruc, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 1,
			}),
			text.New("FACTURA ELECTRÓNICA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
				Color: colorPrimary, Top: 8,
			}),
			text.New(doc.Serie+"-"+doc.Correlativo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 15,
			}),
		),
	)
}

// adquirienteRow: datos del cliente y fecha de emisión.
func adquirienteRow(doc *domsunat.Documento) core.Row {
	c := doc.Client
	return row.New(14).Add(
		col.New(8).Add(
			text.New("ADQUIRIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.RznSocial, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s: %s", docTypeLabel(c.TipoDoc), c.NumDoc), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha de emisión", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New(doc.FechaEmision.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Moneda: "+doc.TipoMoneda, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// docTypeLabel etiqueta legible del tipo de documento de identidad (catálogo 06).
func docTypeLabel(tipoDoc string) string {
	switch tipoDoc {
	case pkgsunat.IdentityDocRUC:
		return "RUC"
	case pkgsunat.IdentityDocDNI:
		return "DNI"
	default:
		return "Doc. Identidad"
	}
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("IGV", 2, align.Right),
		h("Importe", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea de detalle.
func tableDetailRows(details []domsunat.LineaCalculada) []core.Row {
	result := make([]core.Row, 0, len(details))
	for _, d := range details {
		desc := d.Descripcion
		if d.BolsaPlastica {
			desc += " (ICBPER)"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				d.Cantidad.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				desc,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				d.PrecioUnitario.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				d.Igv.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				d.MtoValorVenta.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// leyendaRow: importe total en letras (leyenda 1000).
func leyendaRow(doc *domsunat.Documento) core.Row {
	var letras string
	for _, l := range doc.Legends {
		if l.Code == pkgsunat.LegendMontoEnLetras {
			letras = l.Value
			break
		}
	}
	return row.New(7).Add(col.New(12).Add(
		text.New(letras, props.Text{
			Style: fontstyle.Italic, Size: 8, Top: 2, Color: colorGray,
		}),
	))
}

// totalsRow: bloque de totales alineado a la derecha. Solo se listan los
// grupos de operaciones con monto.
func totalsRow(doc *domsunat.Documento) core.Row {
	t := doc.Totales
	type par struct {
		label string
		monto decimal.Decimal
	}
	pares := []par{
		{"Op. Gravadas:", t.MtoOperGravadas},
		{"Op. Exoneradas:", t.MtoOperExoneradas},
		{"Op. Inafectas:", t.MtoOperInafectas},
		{"Op. Exportación:", t.MtoOperExportacion},
		{"Op. Gratuitas:", t.MtoOperGratuitas},
	}

	labels := make([]core.Component, 0, 8)
	values := make([]core.Component, 0, 8)
	top := 0.0
	add := func(label, value string, destacado bool) {
		style := fontstyle.Bold
		size := 9.0
		color := (*props.Color)(nil)
		if destacado {
			size = 10
			color = colorPrimary
		}
		labels = append(labels, text.New(label, props.Text{
			Style: style, Size: size, Align: align.Right, Right: 2, Top: top, Color: color,
		}))
		values = append(values, text.New(value, props.Text{
			Size: size, Align: align.Right, Right: 1, Top: top, Color: color,
			Style: styleIf(destacado),
		}))
		top += 5
	}

	for _, p := range pares {
		if p.monto.IsPositive() {
			add(p.label, p.monto.StringFixed(2), false)
		}
	}
	add("IGV:", t.MtoIGV.StringFixed(2), false)
	if t.Icbper.IsPositive() {
		add("ICBPER:", t.Icbper.StringFixed(2), false)
	}
	if !t.Redondeo.IsZero() {
		add("Redondeo:", t.Redondeo.StringFixed(2), false)
	}
	add("IMPORTE TOTAL:", t.MtoImpVenta.StringFixed(2), true)

	alto := top + 4
	return row.New(alto).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func styleIf(bold bool) fontstyle.Type {
	if bold {
		return fontstyle.Bold
	}
	return fontstyle.Normal
}

// footerRows: código QR, hash de la firma y leyenda legal.
func footerRows(doc *domsunat.Documento, company *entity.Company, hash string) []core.Row {
	rows := []core.Row{
		row.New(50).Add(
			col.New(4).Add(code.NewQr(qrData(doc, hash), props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Representación impresa de la Factura Electrónica.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Consulte el comprobante en el portal de SUNAT\ncon el número "+doc.Serie+"-"+doc.Correlativo+".", props.Text{
					Size: 8, Top: 10, Left: 3, Color: colorGray,
				}),
				text.New(hashLine(hash), props.Text{
					Size: 7, Top: 24, Left: 3, Color: colorGray,
				}),
			),
		),
	}

	leyenda := "Autorizado mediante Resolución de Intendencia SUNAT. " +
		"Conserve este documento como sustento fiscal."
	if !company.Production {
		leyenda = "Emitido en el ambiente de pruebas (beta) de SUNAT. Sin valor tributario. " + leyenda
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(leyenda, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// qrData arma el contenido del QR según el formato exigido por SUNAT:
// RUC|TIPO|SERIE|CORRELATIVO|IGV|TOTAL|FECHA|TIPO_DOC_CLIENTE|NUM_DOC_CLIENTE|HASH
func qrData(doc *domsunat.Documento, hash string) string {
	campos := []string{
		doc.Company.Ruc,
		doc.TipoDoc,
		doc.Serie,
		doc.Correlativo,
		doc.Totales.MtoIGV.StringFixed(2),
		doc.Totales.MtoImpVenta.StringFixed(2),
		doc.FechaEmision.Format("2006-01-02"),
		doc.Client.TipoDoc,
		doc.Client.NumDoc,
		hash,
	}
	return strings.Join(campos, "|")
}

func hashLine(hash string) string {
	if hash == "" {
		return "Comprobante pendiente de envío a SUNAT."
	}
	return "Resumen (hash de la firma): " + hash
}
