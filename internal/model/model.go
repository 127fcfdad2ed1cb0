package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// EncodedDocument is a transmissible form of an uploaded source document:
// the raw bytes base64-encoded, plus the declared media type and a display
// name. Documents live only for the duration of the request they are
// embedded in.
type EncodedDocument struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Content   string `json:"content"`
}

// VerificationStatus classifies the outcome of the score audit.
type VerificationStatus string

const (
	StatusCorrect   VerificationStatus = "Correct"
	StatusIncorrect VerificationStatus = "Incorrect"
)

// QuestionFeedback holds the human evaluator's record for one question plus
// the machine-generated augmentation line. Marks travel as strings on the
// wire (the generation step extracts them verbatim from the documents) and
// are coerced to decimals for auditing.
type QuestionFeedback struct {
	QuestionNo           string `json:"questionNo"`
	MaxMarks             string `json:"maxMarks"`
	MarksAwarded         string `json:"marksAwarded"`
	KeyAnswerPoints      string `json:"keyAnswerPoints"`
	StudentAnswerSummary string `json:"studentAnswerSummary"`
	HumanFeedback        string `json:"humanFeedback"`
	AIFeedbackAddition   string `json:"aiFeedbackAddition"`
}

// AwardedMarks parses the marksAwarded field as an exact decimal.
func (q QuestionFeedback) AwardedMarks() (decimal.Decimal, error) {
	return ParseMarks(q.MarksAwarded)
}

// MaximumMarks parses the maxMarks field as an exact decimal.
func (q QuestionFeedback) MaximumMarks() (decimal.Decimal, error) {
	return ParseMarks(q.MaxMarks)
}

// ScoreVerification is the audited comparison of the locally computed mark
// total against the total the human evaluator reported. Totals use
// json.Number so exact decimal values survive marshalling unquoted.
type ScoreVerification struct {
	CalculatedTotal        json.Number        `json:"calculatedTotal"`
	ReportedTotal          json.Number        `json:"reportedTotal"`
	Status                 VerificationStatus `json:"status"`
	DiscrepancyExplanation string             `json:"discrepancyExplanation,omitempty"`
}

// Observation is one synthesized high-level note about the script.
type Observation struct {
	Section     string `json:"section"`
	Observation string `json:"observation"`
}

// ActionRecord traces one task objective the generation step claims to have
// fulfilled and the evidence it cites.
type ActionRecord struct {
	Task     string `json:"task"`
	Status   string `json:"status"`
	Evidence string `json:"evidence"`
}

// EvaluationReport is the aggregate produced by one pipeline run. It is
// assembled once and never mutated afterwards.
type EvaluationReport struct {
	ExamReference        string             `json:"examReference"`
	EvaluationType       string             `json:"evaluationType"`
	AIModelRole          string             `json:"aiModelRole"`
	GeneralisedFeedback  string             `json:"generalisedFeedback"`
	QuestionWiseFeedback []QuestionFeedback `json:"questionWiseFeedback"`
	ScoreVerification    ScoreVerification  `json:"scoreVerification"`
	FinalizedFeedback    []Observation      `json:"finalizedFeedback"`
	ActionSummary        []ActionRecord     `json:"actionSummary"`
}
