package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock/internal/models"
)

func sampleReportData() *InventoryReportData {
	due := time.Now().Add(72 * time.Hour)
	return &InventoryReportData{
		Items: []*models.Item{
			{ID: 1, Name: "Oscilloscope", Category: "Instruments", Quantity: 4, Available: 2},
			{ID: 2, Name: "Raspberry Pi 5", Category: "SBC", Quantity: 10, Available: 0},
		},
		OpenBorrowings: []*models.Borrowing{
			{ID: 1, ToolName: "Oscilloscope", UserName: "Asha", Quantity: 1,
				BorrowDate: time.Now().Add(-48 * time.Hour), ExpectedReturnDate: &due},
		},
		TotalStock:     14,
		TotalAvailable: 2,
		TotalOnLoan:    12,
	}
}

func TestGenerateInventoryPDF(t *testing.T) {
	s := &ReportService{}

	pdf, err := s.GenerateInventoryPDF(sampleReportData())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	// Valid PDF output starts with the %PDF magic bytes
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateInventoryPDFEmptyInventory(t *testing.T) {
	s := &ReportService{}

	pdf, err := s.GenerateInventoryPDF(&InventoryReportData{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateInventoryPDFTruncatesLongNames(t *testing.T) {
	s := &ReportService{}

	data := sampleReportData()
	data.Items[0].Name = "An extraordinarily long item name that would overflow the table column"

	pdf, err := s.GenerateInventoryPDF(data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
