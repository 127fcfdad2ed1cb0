package report

import (
	"encoding/json"
	"testing"

	"github.com/anilvk/examaudit/internal/model"
)

func TestAssembleReplacesAdvisoryAudit(t *testing.T) {
	validated := &model.EvaluationReport{
		ExamReference: "ANAT-2025-THEORY-II",
		QuestionWiseFeedback: []model.QuestionFeedback{
			record("3", "10", "10"),
			record("1", "10", "8"),
			record("1", "10", "8"),
		},
		ScoreVerification: model.ScoreVerification{
			CalculatedTotal: json.Number("99"),
			ReportedTotal:   json.Number("26"),
			Status:          model.StatusCorrect,
		},
	}
	audited := model.ScoreVerification{
		CalculatedTotal:        json.Number("26"),
		ReportedTotal:          json.Number("26"),
		Status:                 model.StatusCorrect,
		DiscrepancyExplanation: "question 1 appears 2 times; duplicate entries inflate the calculated total",
	}

	out := Assemble(validated, audited)

	if out.ScoreVerification.CalculatedTotal != "26" {
		t.Errorf("CalculatedTotal = %s, want the locally audited 26", out.ScoreVerification.CalculatedTotal)
	}
	if out.ScoreVerification.DiscrepancyExplanation == "" {
		t.Error("audited explanation should survive assembly")
	}

	t.Run("question order preserved", func(t *testing.T) {
		wantOrder := []string{"3", "1", "1"}
		for i, rec := range out.QuestionWiseFeedback {
			if rec.QuestionNo != wantOrder[i] {
				t.Errorf("question %d = %s, want %s", i, rec.QuestionNo, wantOrder[i])
			}
		}
	})

	t.Run("duplicates not deduplicated", func(t *testing.T) {
		if len(out.QuestionWiseFeedback) != 3 {
			t.Errorf("QuestionWiseFeedback length = %d, want 3", len(out.QuestionWiseFeedback))
		}
	})

	t.Run("input report not mutated", func(t *testing.T) {
		if validated.ScoreVerification.CalculatedTotal != "99" {
			t.Error("Assemble must not mutate the validated input")
		}
	})
}
