package report

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/anilvk/examaudit/internal/model"
)

func record(no, maxMarks, awarded string) model.QuestionFeedback {
	return model.QuestionFeedback{
		QuestionNo:   no,
		MaxMarks:     maxMarks,
		MarksAwarded: awarded,
	}
}

func threeQuestions() []model.QuestionFeedback {
	return []model.QuestionFeedback{
		record("1", "10", "8"),
		record("2", "10", "7"),
		record("3", "10", "10"),
	}
}

func TestAuditCorrectTotal(t *testing.T) {
	sv, err := Audit(threeQuestions(), json.Number("25"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if sv.CalculatedTotal != "25" {
		t.Errorf("CalculatedTotal = %s, want 25", sv.CalculatedTotal)
	}
	if sv.ReportedTotal != "25" {
		t.Errorf("ReportedTotal = %s, want 25", sv.ReportedTotal)
	}
	if sv.Status != model.StatusCorrect {
		t.Errorf("Status = %s, want Correct", sv.Status)
	}
	if sv.DiscrepancyExplanation != "" {
		t.Errorf("DiscrepancyExplanation = %q, want empty for a clean correct audit", sv.DiscrepancyExplanation)
	}
}

func TestAuditIncorrectTotal(t *testing.T) {
	sv, err := Audit(threeQuestions(), json.Number("24"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if sv.CalculatedTotal != "25" {
		t.Errorf("CalculatedTotal = %s, want 25", sv.CalculatedTotal)
	}
	if sv.Status != model.StatusIncorrect {
		t.Errorf("Status = %s, want Incorrect", sv.Status)
	}
	if sv.DiscrepancyExplanation == "" {
		t.Fatal("DiscrepancyExplanation must be non-empty for an incorrect total")
	}
	if !strings.Contains(sv.DiscrepancyExplanation, "+1") {
		t.Errorf("explanation %q should cite the +1 discrepancy", sv.DiscrepancyExplanation)
	}
}

func TestAuditSumScenarios(t *testing.T) {
	tests := []struct {
		name       string
		records    []model.QuestionFeedback
		reported   string
		wantTotal  string
		wantStatus model.VerificationStatus
	}{
		{"single question", []model.QuestionFeedback{record("1", "10", "10")}, "10", "10", model.StatusCorrect},
		{"fractional marks", []model.QuestionFeedback{
			record("1", "10", "7.5"),
			record("2", "10", "8.5"),
		}, "16", "16", model.StatusCorrect},
		{"fractional drift caught exactly", []model.QuestionFeedback{
			record("1", "1", "0.1"),
			record("2", "1", "0.2"),
		}, "0.3", "0.3", model.StatusCorrect},
		{"reported too high", threeQuestions(), "30", "25", model.StatusIncorrect},
		{"reported too low", threeQuestions(), "20", "25", model.StatusIncorrect},
		{"zero awarded", []model.QuestionFeedback{
			record("1", "10", "0"),
			record("2", "10", "0"),
		}, "0", "0", model.StatusCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv, err := Audit(tt.records, json.Number(tt.reported))
			if err != nil {
				t.Fatalf("Audit() error = %v", err)
			}
			if sv.CalculatedTotal != json.Number(tt.wantTotal) {
				t.Errorf("CalculatedTotal = %s, want %s", sv.CalculatedTotal, tt.wantTotal)
			}
			if sv.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", sv.Status, tt.wantStatus)
			}
			if sv.Status == model.StatusIncorrect && sv.DiscrepancyExplanation == "" {
				t.Error("DiscrepancyExplanation must be non-empty when Incorrect")
			}
		})
	}
}

func TestAuditOrderIndependentTotal(t *testing.T) {
	forward := threeQuestions()
	reversed := []model.QuestionFeedback{forward[2], forward[1], forward[0]}

	a, err := Audit(forward, json.Number("25"))
	if err != nil {
		t.Fatalf("Audit(forward) error = %v", err)
	}
	b, err := Audit(reversed, json.Number("25"))
	if err != nil {
		t.Fatalf("Audit(reversed) error = %v", err)
	}
	if a.CalculatedTotal != b.CalculatedTotal {
		t.Errorf("totals differ by order: %s vs %s", a.CalculatedTotal, b.CalculatedTotal)
	}
	if a.Status != b.Status {
		t.Errorf("status differs by order: %s vs %s", a.Status, b.Status)
	}
}

func TestAuditIdempotent(t *testing.T) {
	records := append(threeQuestions(), record("2", "10", "12"))

	first, err := Audit(records, json.Number("25"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	second, err := Audit(records, json.Number("25"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated audits differ:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestAuditReportsOverMaximum(t *testing.T) {
	records := []model.QuestionFeedback{
		record("1", "10", "12"),
		record("2", "10", "8"),
	}
	sv, err := Audit(records, json.Number("20"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	// 12+8 = 20 matches the reported total, but the anomaly is still reported.
	if sv.Status != model.StatusCorrect {
		t.Errorf("Status = %s, want Correct", sv.Status)
	}
	if !strings.Contains(sv.DiscrepancyExplanation, "exceeds maximum") {
		t.Errorf("explanation %q should report awarded > maximum", sv.DiscrepancyExplanation)
	}
	if !strings.Contains(sv.DiscrepancyExplanation, "question 1") {
		t.Errorf("explanation %q should name the offending question", sv.DiscrepancyExplanation)
	}
}

func TestAuditReportsNegativeMarks(t *testing.T) {
	records := []model.QuestionFeedback{record("1", "10", "-2")}
	sv, err := Audit(records, json.Number("-2"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if !strings.Contains(sv.DiscrepancyExplanation, "negative") {
		t.Errorf("explanation %q should report negative marks", sv.DiscrepancyExplanation)
	}
}

func TestAuditReportsDuplicateQuestions(t *testing.T) {
	records := []model.QuestionFeedback{
		record("1", "10", "8"),
		record("1", "10", "8"),
		record("2", "10", "7"),
	}
	sv, err := Audit(records, json.Number("15"))
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	// Duplicates are preserved and inflate the sum: 8+8+7 = 23 != 15.
	if sv.CalculatedTotal != "23" {
		t.Errorf("CalculatedTotal = %s, want 23 (duplicates counted)", sv.CalculatedTotal)
	}
	if sv.Status != model.StatusIncorrect {
		t.Errorf("Status = %s, want Incorrect", sv.Status)
	}
	if !strings.Contains(sv.DiscrepancyExplanation, "appears 2 times") {
		t.Errorf("explanation %q should report the duplicated question", sv.DiscrepancyExplanation)
	}
}

func TestAuditBadInput(t *testing.T) {
	t.Run("unparseable awarded marks", func(t *testing.T) {
		if _, err := Audit([]model.QuestionFeedback{record("1", "10", "eight")}, json.Number("8")); err == nil {
			t.Error("Audit() should fail on non-numeric awarded marks")
		}
	})
	t.Run("unparseable reported total", func(t *testing.T) {
		if _, err := Audit(threeQuestions(), json.Number("n/a")); err == nil {
			t.Error("Audit() should fail on non-numeric reported total")
		}
	})
}
