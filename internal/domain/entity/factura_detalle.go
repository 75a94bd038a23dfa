package entity

import "github.com/shopspring/decimal"

// FacturaDetalle representa una línea de detalle de una factura.
// Inmutable una vez persistida; se elimina solo en cascada con la factura.
// PrecioUnitario incluye IGV; los campos derivados (Subtotal, Igv, Icbper)
// salen del cálculo de impuestos al crear la factura.
type FacturaDetalle struct {
	ID             string
	FacturaID      string
	LineNumber     int // posición de la línea en el comprobante, desde 1
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal // precio con IGV incluido
	TipAfeIgv      string          // Catálogo 07 (10=Gravado, 20=Exonerado, ...)
	BolsaPlastica  bool            // línea afecta al ICBPER
	Subtotal       decimal.Decimal // valor de venta neto de la línea
	Igv            decimal.Decimal
	Icbper         decimal.Decimal
}
