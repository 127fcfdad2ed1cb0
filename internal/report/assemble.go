package report

import "github.com/anilvk/examaudit/internal/model"

// Assemble merges the validated generation output with the locally
// computed score verification into the final report. The generation's
// advisory audit fields are replaced wholesale; question order is
// preserved exactly as returned (it tracks document order), and duplicate
// question numbers are kept rather than deduplicated.
func Assemble(validated *model.EvaluationReport, audited model.ScoreVerification) model.EvaluationReport {
	out := *validated
	out.ScoreVerification = audited
	return out
}
