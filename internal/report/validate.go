package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anilvk/examaudit/internal/model"
)

// Validate parses the raw gateway text and checks it against the report
// schema. It returns the typed report with the gateway's advisory
// scoreVerification still in place; Audit replaces those fields before
// assembly. Any violation fails with a SchemaViolationError naming the
// offending field; nothing is dropped or defaulted.
func Validate(raw string) (*model.EvaluationReport, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, &MalformedPayloadError{Raw: raw, Err: fmt.Errorf("payload is empty")}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, &MalformedPayloadError{Raw: raw, Err: err}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, &SchemaViolationError{Field: "(root)", Want: "object", Got: describe(parsed)}
	}

	obj = model.MigratePayload(obj)

	var rpt model.EvaluationReport
	var err error

	if rpt.ExamReference, err = strField(obj, "", "examReference"); err != nil {
		return nil, err
	}
	if rpt.EvaluationType, err = strField(obj, "", "evaluationType"); err != nil {
		return nil, err
	}
	if rpt.AIModelRole, err = strField(obj, "", "aiModelRole"); err != nil {
		return nil, err
	}
	if rpt.GeneralisedFeedback, err = strField(obj, "", "generalisedFeedback"); err != nil {
		return nil, err
	}

	if rpt.QuestionWiseFeedback, err = questionFeedback(obj); err != nil {
		return nil, err
	}
	if rpt.ScoreVerification, err = scoreVerification(obj); err != nil {
		return nil, err
	}
	if rpt.FinalizedFeedback, err = observations(obj); err != nil {
		return nil, err
	}
	if rpt.ActionSummary, err = actionRecords(obj); err != nil {
		return nil, err
	}

	return &rpt, nil
}

func questionFeedback(obj map[string]any) ([]model.QuestionFeedback, error) {
	arr, err := arrField(obj, "", "questionWiseFeedback")
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, &SchemaViolationError{Field: "questionWiseFeedback", Want: "non-empty array", Got: "empty array"}
	}

	records := make([]model.QuestionFeedback, 0, len(arr))
	for i, el := range arr {
		path := fmt.Sprintf("questionWiseFeedback[%d]", i)
		item, ok := el.(map[string]any)
		if !ok {
			return nil, &SchemaViolationError{Field: path, Want: "object", Got: describe(el)}
		}

		var rec model.QuestionFeedback
		if rec.QuestionNo, err = coercedStrField(item, path, "questionNo"); err != nil {
			return nil, err
		}
		if rec.MaxMarks, err = marksField(item, path, "maxMarks"); err != nil {
			return nil, err
		}
		if rec.MarksAwarded, err = marksField(item, path, "marksAwarded"); err != nil {
			return nil, err
		}
		if rec.KeyAnswerPoints, err = strField(item, path, "keyAnswerPoints"); err != nil {
			return nil, err
		}
		if rec.StudentAnswerSummary, err = strField(item, path, "studentAnswerSummary"); err != nil {
			return nil, err
		}
		if rec.HumanFeedback, err = strField(item, path, "humanFeedback"); err != nil {
			return nil, err
		}
		if rec.AIFeedbackAddition, err = strField(item, path, "aiFeedbackAddition"); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func scoreVerification(obj map[string]any) (model.ScoreVerification, error) {
	sv, err := objField(obj, "", "scoreVerification")
	if err != nil {
		return model.ScoreVerification{}, err
	}
	const path = "scoreVerification"

	var out model.ScoreVerification
	if out.CalculatedTotal, err = numField(sv, path, "calculatedTotal"); err != nil {
		return model.ScoreVerification{}, err
	}
	if out.ReportedTotal, err = numField(sv, path, "reportedTotal"); err != nil {
		return model.ScoreVerification{}, err
	}

	status, err := strField(sv, path, "status")
	if err != nil {
		return model.ScoreVerification{}, err
	}
	switch model.VerificationStatus(status) {
	case model.StatusCorrect, model.StatusIncorrect:
		out.Status = model.VerificationStatus(status)
	default:
		return model.ScoreVerification{}, &SchemaViolationError{
			Field: path + ".status",
			Want:  `"Correct" or "Incorrect"`,
			Got:   fmt.Sprintf("%q", status),
		}
	}

	// discrepancyExplanation is the single optional field.
	if raw, ok := sv["discrepancyExplanation"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return model.ScoreVerification{}, &SchemaViolationError{
				Field: path + ".discrepancyExplanation",
				Want:  "string",
				Got:   describe(raw),
			}
		}
		out.DiscrepancyExplanation = s
	}
	return out, nil
}

func observations(obj map[string]any) ([]model.Observation, error) {
	arr, err := arrField(obj, "", "finalizedFeedback")
	if err != nil {
		return nil, err
	}
	out := make([]model.Observation, 0, len(arr))
	for i, el := range arr {
		path := fmt.Sprintf("finalizedFeedback[%d]", i)
		item, ok := el.(map[string]any)
		if !ok {
			return nil, &SchemaViolationError{Field: path, Want: "object", Got: describe(el)}
		}
		var o model.Observation
		if o.Section, err = strField(item, path, "section"); err != nil {
			return nil, err
		}
		if o.Observation, err = strField(item, path, "observation"); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func actionRecords(obj map[string]any) ([]model.ActionRecord, error) {
	arr, err := arrField(obj, "", "actionSummary")
	if err != nil {
		return nil, err
	}
	out := make([]model.ActionRecord, 0, len(arr))
	for i, el := range arr {
		path := fmt.Sprintf("actionSummary[%d]", i)
		item, ok := el.(map[string]any)
		if !ok {
			return nil, &SchemaViolationError{Field: path, Want: "object", Got: describe(el)}
		}
		var a model.ActionRecord
		if a.Task, err = strField(item, path, "task"); err != nil {
			return nil, err
		}
		if a.Status, err = strField(item, path, "status"); err != nil {
			return nil, err
		}
		if a.Evidence, err = strField(item, path, "evidence"); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// strField requires a string value under key.
func strField(obj map[string]any, path, key string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", &SchemaViolationError{Field: joinPath(path, key), Want: "string", Got: describe(raw)}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &SchemaViolationError{Field: joinPath(path, key), Want: "string", Got: describe(raw)}
	}
	return s, nil
}

// coercedStrField requires a string but tolerates a number, which models
// occasionally emit for question numbers.
func coercedStrField(obj map[string]any, path, key string) (string, error) {
	if n, ok := obj[key].(json.Number); ok {
		return n.String(), nil
	}
	return strField(obj, path, key)
}

// marksField requires a marks value: a numeric-looking string or a bare
// number, returned in its textual form.
func marksField(obj map[string]any, path, key string) (string, error) {
	s, err := coercedStrField(obj, path, key)
	if err != nil {
		return "", err
	}
	if _, perr := model.ParseMarks(s); perr != nil {
		return "", &SchemaViolationError{Field: joinPath(path, key), Want: "numeric string", Got: fmt.Sprintf("%q", s)}
	}
	return s, nil
}

// numField requires a number, coercing numeric-looking strings.
func numField(obj map[string]any, path, key string) (json.Number, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", &SchemaViolationError{Field: joinPath(path, key), Want: "number", Got: describe(raw)}
	}
	switch v := raw.(type) {
	case json.Number:
		return v, nil
	case string:
		if d, err := model.ParseMarks(v); err == nil {
			return json.Number(d.String()), nil
		}
	}
	return "", &SchemaViolationError{Field: joinPath(path, key), Want: "number", Got: describe(raw)}
}

func objField(obj map[string]any, path, key string) (map[string]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, &SchemaViolationError{Field: joinPath(path, key), Want: "object", Got: describe(raw)}
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &SchemaViolationError{Field: joinPath(path, key), Want: "object", Got: describe(raw)}
	}
	return m, nil
}

func arrField(obj map[string]any, path, key string) ([]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, &SchemaViolationError{Field: joinPath(path, key), Want: "array", Got: describe(raw)}
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, &SchemaViolationError{Field: joinPath(path, key), Want: "array", Got: describe(raw)}
	}
	return arr, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// describe names the observed shape for schema violation messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "missing"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// stripCodeFences removes a markdown code fence some models wrap around
// JSON output despite the schema instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
