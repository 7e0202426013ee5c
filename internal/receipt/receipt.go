// Package receipt renders a PDF receipt for a completed trip.
package receipt

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

var ErrTripNotCompleted = errors.New("receipt is only available for completed trips")

type Receipt struct {
	TripID       string
	RiderName    string
	RiderEmail   string
	BikeNumber   string
	StartStation string
	EndStation   string
	StartTime    time.Time
	EndTime      time.Time
	Minutes      int
	DistanceKm   float64
	BaseFare     int64
	PerMinute    int64
	Fare         int64
}

func Render(w io.Writer, r Receipt) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-CYCLE TRIP RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Trip       : " + r.TripID,
		"Rider      : " + r.RiderName + " <" + r.RiderEmail + ">",
		"Bike       : " + r.BikeNumber,
		"From       : " + r.StartStation,
		"To         : " + r.EndStation,
		"Started    : " + r.StartTime.Format("2006-01-02 15:04"),
		"Ended      : " + r.EndTime.Format("2006-01-02 15:04"),
		fmt.Sprintf("Duration   : %d min", r.Minutes),
		fmt.Sprintf("Distance   : %.1f km", r.DistanceKm),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Base fare                 : %d", r.BaseFare))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Time (%d min x %d)         : %d", r.Minutes, r.PerMinute, int64(r.Minutes)*r.PerMinute))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Total charged to wallet   : %d", r.Fare))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Thank you for riding. Please dock bikes fully so the next rider can find them.", "", "", false)

	return pdf.Output(w)
}
