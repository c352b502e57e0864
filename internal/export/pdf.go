// Package export writes training plans to shareable files.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"stridecoach/internal/store"
)

// WritePlanPDF renders the full training plan as an A4 PDF at path.
func WritePlanPDF(goal *store.RaceGoal, plan *store.TrainingPlan, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Training Plan: %s", goal.RaceName))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s on %s - %d weeks - %s level",
		goal.Distance, goal.RaceDate.Format("Jan 2, 2006"), plan.WeeksUntilRace, plan.FitnessLevel))
	pdf.Ln(6)
	if goal.TargetTimeMinutes != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Target time: %s", formatMinutes(*goal.TargetTimeMinutes)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for _, week := range plan.Weeks {
		// Keep each week's block on one page
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}

		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Week %d - %s - %.1f km (starts %s)",
			week.WeekNumber, week.Phase, week.ActualKm, week.StartDate.Format("Jan 2")))
		pdf.Ln(7)

		if week.Note != "" {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 5, week.Note)
			pdf.Ln(6)
		}

		pdf.SetFont("Arial", "", 10)
		for _, wo := range week.Workouts {
			line := fmt.Sprintf("  %-10s %-14s", wo.DayName, wo.Type)
			if wo.DistanceKm > 0 {
				line += fmt.Sprintf(" %5.1f km", wo.DistanceKm)
			}
			pdf.Cell(0, 5, line)
			pdf.Ln(4)
			if wo.Description != "" && wo.Type != "Rest" {
				pdf.MultiCell(0, 4, "             "+wo.Description, "", "", false)
			}
		}
		pdf.Ln(4)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing plan PDF: %w", err)
	}
	return nil
}

func formatMinutes(minutes float64) string {
	total := int(minutes * 60)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
