package handlers

import (
	"fmt"
	"net/http"
	"time"

	"labstock/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) InventoryPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GetInventoryReportData(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	pdf, err := h.Service.GenerateInventoryPDF(data)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=inventory_%s.pdf", time.Now().Format("2006-01-02")))
	w.Write(pdf)
}

func (h *ReportHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GenerateInventoryCSV(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=inventory_%s.csv", time.Now().Format("2006-01-02")))
	w.Write(data)
}

func (h *ReportHandler) BorrowingsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GenerateBorrowingsCSV(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=borrowings_%s.csv", time.Now().Format("2006-01-02")))
	w.Write(data)
}

func (h *ReportHandler) BorrowSlipPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	pdf, err := h.Service.GenerateBorrowSlipPDF(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=borrow_slip_%d.pdf", id))
	w.Write(pdf)
}
