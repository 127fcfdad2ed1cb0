package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anilvk/examaudit/internal/model"
)

// Audit deterministically recomputes the score total from the extracted
// per-question marks and classifies it against the reported total. The
// generation step's own calculatedTotal and status are never consulted;
// this result replaces them during assembly.
//
// Status is Correct iff the recomputed sum equals the reported total
// exactly. The explanation states the signed difference and any
// per-question anomalies: awarded marks above the maximum (reported, never
// clamped) and duplicated question numbers, which inflate the sum and are
// themselves a useful audit signal.
func Audit(records []model.QuestionFeedback, reportedTotal json.Number) (model.ScoreVerification, error) {
	reported, err := decimal.NewFromString(reportedTotal.String())
	if err != nil {
		return model.ScoreVerification{}, fmt.Errorf("parse reported total %q: %w", reportedTotal, err)
	}

	calculated := decimal.Zero
	seen := make(map[string]int, len(records))
	var notes []string

	for _, rec := range records {
		awarded, err := rec.AwardedMarks()
		if err != nil {
			return model.ScoreVerification{}, fmt.Errorf("question %s: %w", rec.QuestionNo, err)
		}
		calculated = calculated.Add(awarded)

		maxMarks, err := rec.MaximumMarks()
		if err != nil {
			return model.ScoreVerification{}, fmt.Errorf("question %s: %w", rec.QuestionNo, err)
		}
		if awarded.GreaterThan(maxMarks) {
			notes = append(notes, fmt.Sprintf("question %s: awarded %s exceeds maximum %s",
				rec.QuestionNo, awarded.String(), maxMarks.String()))
		}
		if awarded.IsNegative() {
			notes = append(notes, fmt.Sprintf("question %s: awarded %s is negative",
				rec.QuestionNo, awarded.String()))
		}
		seen[rec.QuestionNo]++
	}

	// Duplicate question numbers are reported in first-occurrence order so
	// repeated audits produce identical output.
	dupSeen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.QuestionNo] > 1 && !dupSeen[rec.QuestionNo] {
			dupSeen[rec.QuestionNo] = true
			notes = append(notes, fmt.Sprintf("question %s appears %d times; duplicate entries inflate the calculated total",
				rec.QuestionNo, seen[rec.QuestionNo]))
		}
	}

	sv := model.ScoreVerification{
		CalculatedTotal: json.Number(calculated.String()),
		ReportedTotal:   json.Number(reported.String()),
		Status:          model.StatusCorrect,
	}

	if !calculated.Equal(reported) {
		sv.Status = model.StatusIncorrect
		diff := calculated.Sub(reported)
		sign := ""
		if diff.IsPositive() {
			sign = "+"
		}
		notes = append([]string{fmt.Sprintf("calculated total %s differs from reported total %s by %s%s",
			calculated.String(), reported.String(), sign, diff.String())}, notes...)
	}

	sv.DiscrepancyExplanation = strings.Join(notes, "; ")
	return sv, nil
}
