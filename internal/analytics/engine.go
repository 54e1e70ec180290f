package analytics

import (
	"time"

	"github.com/sourcegraph/conc"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// CorrelationInput is everything the correlation engine needs for one user
type CorrelationInput struct {
	Window   models.DateRange
	Doses    []models.DoseEvent
	CheckIns []models.CheckIn
	Efficacy []models.EfficacyReport
	Vitals   []models.VitalReading
	Now      time.Time
	Policy   Policy
}

// RunCorrelationAnalysis builds the day timelines for the window and runs the
// correlation, temporal, effectiveness and network analyses concurrently.
// Each analysis only reads the shared timelines and writes its own field.
func RunCorrelationAnalysis(in CorrelationInput) (*models.CorrelationReport, error) {
	if err := ValidateRange(in.Window); err != nil {
		return nil, err
	}

	meds := BuildMedicationTimeline(in.Doses, in.Window)
	symptoms := BuildSymptomTimeline(in.CheckIns, in.Window)
	efficacy := BuildEfficacyTimeline(in.Efficacy, in.Window)

	report := &models.CorrelationReport{
		Window:      in.Window,
		GeneratedAt: in.Now.UTC(),
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		report.Correlations = CorrelateMedicationsWithSymptoms(meds, symptoms, in.Policy)
	})
	wg.Go(func() {
		report.TemporalPatterns = DetectTemporalPatterns(meds, symptoms, in.Policy)
	})
	wg.Go(func() {
		report.Effectiveness = AnalyzeSymptomEffectiveness(efficacy, symptoms, in.Policy)
	})
	wg.Go(func() {
		report.Network = BuildSymptomNetwork(symptoms, in.Policy)
	})
	wg.Go(func() {
		report.VitalAssociations = CorrelateVitalsWithAdherence(in.Vitals, BuildDoseTimeline(dosesInWindow(in.Doses, in.Window)), in.Window)
	})
	wg.Wait()

	return report, nil
}

func dosesInWindow(events []models.DoseEvent, window models.DateRange) []models.DoseEvent {
	filtered := make([]models.DoseEvent, 0, len(events))
	for _, e := range events {
		if window.Contains(e.CreatedAt) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
