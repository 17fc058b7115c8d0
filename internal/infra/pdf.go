package infra

// pdf.go renders sale tickets with go-pdf/fpdf on thermal-receipt sized pages
// (74mm wide). The page grows with the number of lines so long sales stay on
// one page.

import (
	"bytes"
	"fmt"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// TicketInfo carries the names shown on the ticket header.
type TicketInfo struct {
	Negocio    string
	Subalmacen string
	Vendedor   string
}

// RenderTicketPDF writes the ticket of a sale into a byte slice.
func RenderTicketPDF(venta *model.Venta, info TicketInfo) ([]byte, error) {
	alto := 70 + float64(len(venta.Items))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	negocio := info.Negocio
	if negocio == "" {
		negocio = "Punto de Venta"
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if info.Subalmacen != "" {
		pdf.CellFormat(contentW, 4, tr(info.Subalmacen), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Venta N° %d", venta.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if info.Vendedor != "" {
		pdf.CellFormat(contentW, 4, tr("Atendió: "+info.Vendedor), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	colNombre := contentW * 0.52
	colCant := contentW * 0.16
	colSub := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(colNombre, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCant, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colSub, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := []rune(item.Nombre)
		if len(nombre) > 22 {
			nombre = append(nombre[:21], '.')
		}
		subtotal := item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		pdf.CellFormat(colNombre, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(colSub, 5, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colNombre+colCant, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(colNombre+colCant, 4, "Pago con:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 4, "$"+venta.PagoCon.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(colNombre+colCant, 4, "Cambio:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 4, "$"+venta.Cambio.StringFixed(2), "", 1, "R", false, 0, "")

	if venta.Estado == model.VentaParcial {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW, 4, "INVENTARIO NO ACTUALIZADO POR COMPLETO", "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
