package services

import (
	"bytes"
	"fmt"

	"eventaro/internal/adapters/persistence/models"

	"github.com/jung-kurt/gofpdf"
)

// TicketService renders printable confirmation artifacts
type TicketService struct{}

// NewTicketService creates a new ticket service
func NewTicketService() *TicketService {
	return &TicketService{}
}

// Generate renders a fixed-layout A5 ticket for a confirmed reservation.
// The reservation must have its event preloaded.
func (s *TicketService) Generate(reservation *models.Reservation, participantName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Event Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Event: %s", reservation.Event.Title), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", reservation.Event.DateTime.Format("Mon, 02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Location: %s", reservation.Event.Location), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 7, fmt.Sprintf("Participant: %s", participantName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Reservation ID: %s", reservation.ID), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
