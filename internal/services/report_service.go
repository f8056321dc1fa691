package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"labstock/internal/models"
	"labstock/internal/repositories"
)

// InventoryReportData holds everything for the inventory report
type InventoryReportData struct {
	Items          []*models.Item
	OpenBorrowings []*models.Borrowing
	TotalStock     int
	TotalAvailable int
	TotalOnLoan    int
}

// ReportService generates PDF and CSV exports
type ReportService struct {
	ItemRepo      *repositories.ItemRepository
	BorrowingRepo *repositories.BorrowingRepository
}

func NewReportService(itemRepo *repositories.ItemRepository, borrowingRepo *repositories.BorrowingRepository) *ReportService {
	return &ReportService{ItemRepo: itemRepo, BorrowingRepo: borrowingRepo}
}

// GetInventoryReportData fetches the current inventory snapshot
func (s *ReportService) GetInventoryReportData(ctx context.Context) (*InventoryReportData, error) {
	items, err := s.ItemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	open, err := s.BorrowingRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	data := &InventoryReportData{Items: items, OpenBorrowings: open}
	for _, it := range items {
		data.TotalStock += it.Quantity
		data.TotalAvailable += it.Available
	}
	data.TotalOnLoan = data.TotalStock - data.TotalAvailable
	return data, nil
}

// GenerateInventoryPDF renders the inventory snapshot as a PDF
func (s *ReportService) GenerateInventoryPDF(data *InventoryReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "LabStock - Inventory Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total Stock: %d", data.TotalStock), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Available: %d", data.TotalAvailable), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("On Loan / Allocated: %d", data.TotalOnLoan), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Available", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range data.Items {
		name := it.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		category := it.Category
		if len(category) > 20 {
			category = category[:17] + "..."
		}

		// Highlight rows that are fully claimed
		if it.Available == 0 && it.Quantity > 0 {
			pdf.SetFillColor(255, 200, 200)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.ID), "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 6, name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 6, category, "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", it.Available), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(5)

	// Open borrowings table
	if len(data.OpenBorrowings) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Open Borrowings", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(60, 7, "Tool", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Borrower", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Since", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Due", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, b := range data.OpenBorrowings {
			tool := b.ToolName
			if len(tool) > 28 {
				tool = tool[:25] + "..."
			}
			borrower := b.UserName
			if len(borrower) > 22 {
				borrower = borrower[:19] + "..."
			}
			due := "-"
			if b.ExpectedReturnDate != nil {
				due = b.ExpectedReturnDate.Format("02-Jan-2006")
			}

			pdf.CellFormat(60, 6, tool, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, borrower, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", b.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, b.BorrowDate.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, due, "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBorrowSlipPDF renders a single borrowing as a printable slip
func (s *ReportService) GenerateBorrowSlipPDF(ctx context.Context, borrowingID int) ([]byte, error) {
	b, err := s.BorrowingRepo.Get(ctx, borrowingID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "LabStock - Borrow Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Slip #%d, generated %s", b.ID, time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Borrowing Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Tool: %s", b.ToolName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Quantity: %d", b.Quantity), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Borrower: %s", b.UserName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Borrowed: %s", b.BorrowDate.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")

	due := "not set"
	if b.ExpectedReturnDate != nil {
		due = b.ExpectedReturnDate.Format("02-Jan-2006")
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Expected return: %s", due), "LB", 0, "L", false, 0, "")
	if b.ActualReturnDate != nil {
		pdf.CellFormat(95, 7, fmt.Sprintf("Returned: %s", b.ActualReturnDate.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 7, "Returned: OPEN", "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	// Signature lines
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Borrower signature: ____________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Issued by: ____________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateInventoryCSV exports the item list as CSV
func (s *ReportService) GenerateInventoryCSV(ctx context.Context) ([]byte, error) {
	data, err := s.GetInventoryReportData(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"ID", "Name", "Category", "Description", "Total Qty", "Available", "On Loan"})
	for _, it := range data.Items {
		w.Write([]string{
			fmt.Sprintf("%d", it.ID),
			it.Name,
			it.Category,
			it.Description,
			fmt.Sprintf("%d", it.Quantity),
			fmt.Sprintf("%d", it.Available),
			fmt.Sprintf("%d", it.Quantity-it.Available),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBorrowingsCSV exports all borrowings as CSV
func (s *ReportService) GenerateBorrowingsCSV(ctx context.Context) ([]byte, error) {
	borrowings, err := s.BorrowingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"ID", "Tool", "Borrower", "Qty", "Borrowed", "Expected Return", "Returned", "Status"})
	for _, b := range borrowings {
		due, returned, status := "", "", "OPEN"
		if b.ExpectedReturnDate != nil {
			due = b.ExpectedReturnDate.Format("2006-01-02")
		}
		if b.ActualReturnDate != nil {
			returned = b.ActualReturnDate.Format("2006-01-02")
			status = "RETURNED"
		}
		w.Write([]string{
			fmt.Sprintf("%d", b.ID),
			b.ToolName,
			b.UserName,
			fmt.Sprintf("%d", b.Quantity),
			b.BorrowDate.Format("2006-01-02"),
			due,
			returned,
			status,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
