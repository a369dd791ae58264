package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Invoice handles GET /api/orders/:orderid/invoice and streams a PDF invoice
// for the order. Owner or admin only.
func (h *Handlers) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.store.GetByID(ctx, ps.ByName("orderid"))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Println("Invoice:", err)
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}
	if order.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	buf, err := renderInvoicePDF(order)
	if err != nil {
		log.Println("Invoice render:", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func renderInvoicePDF(order models.Order) (*bytes.Buffer, error) {
	// QR carries the order number so the warehouse scanner can pull it up.
	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tax Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderNumber))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, order.PaymentStatus))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Ship To")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 11)
	addr := order.ShippingAddress
	pdf.Cell(0, 6, fmt.Sprintf("%s %s", addr.FirstName, addr.LastName))
	pdf.Ln(5)
	pdf.Cell(0, 6, addr.Address1)
	pdf.Ln(5)
	if addr.Address2 != "" {
		pdf.Cell(0, 6, addr.Address2)
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("%s, %s %s", addr.City, addr.State, addr.ZipCode))
	pdf.Ln(10)

	// Line items.
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		pdf.CellFormat(90, 7, it.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", utils.MajorUnits(it.UnitPriceMinor)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", utils.MajorUnits(it.TotalMinor)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(145, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", utils.MajorUnits(order.SubtotalMinor)), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 6, "Shipping", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", utils.MajorUnits(order.ShippingMinor)), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 6, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", utils.MajorUnits(order.TaxMinor)), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 8, fmt.Sprintf("Total (%s)", order.Currency), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", utils.MajorUnits(order.TotalMinor)), "", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return &buf, nil
}
