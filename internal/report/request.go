// Package report holds the synthesis core: the generation request and
// schema contract, validation of returned payloads, the local score
// audit, and assembly of the final evaluation report.
package report

import (
	"strings"

	"github.com/anilvk/examaudit/internal/model"
)

// Request is a single generation request: fixed instruction, a textual
// cross-reference naming both documents, the encoded payloads, and the
// output schema contract.
type Request struct {
	Instruction    string
	CrossReference string
	Documents      []model.EncodedDocument
	SchemaJSON     string
}

// NewRequest assembles the generation request for one evaluation run. The
// artifact bundle (question paper, marking key, student script) comes
// first, the human evaluator's feedback document second; document order is
// part of the cross-reference the instruction relies on.
func NewRequest(artifact, humanFeedback model.EncodedDocument) Request {
	return Request{
		Instruction:    instructionText(),
		CrossReference: crossReference(artifact, humanFeedback),
		Documents:      []model.EncodedDocument{artifact, humanFeedback},
		SchemaJSON:     SchemaJSON,
	}
}

// instructionText is the fixed task instruction: four objectives and two
// hard rules. It is sent verbatim with every request.
func instructionText() string {
	var sb strings.Builder
	sb.WriteString("You are an assistant to a faculty evaluator of academic exam scripts. ")
	sb.WriteString("You are given two documents: an artifact bundle (question paper, marking key, student answer script) ")
	sb.WriteString("and the human evaluator's feedback document (per-question marks, comments, reported total).\n\n")

	sb.WriteString("OBJECTIVES:\n")
	sb.WriteString("1. EXTRACT: Transcribe the human evaluator's per-question marks and comments verbatim from the feedback document. ")
	sb.WriteString("Record each question's number, maximum marks and awarded marks exactly as written.\n")
	sb.WriteString("2. AUGMENT: For each question, add exactly one concise suggestion line (aiFeedbackAddition) that supplements ")
	sb.WriteString("the human feedback, grounded in the marking key and the student's answer.\n")
	sb.WriteString("3. ELABORATE: Expand the evaluator's general feedback into 3-5 sentences (generalisedFeedback) ")
	sb.WriteString("without introducing any fact not supported by the documents.\n")
	sb.WriteString("4. AUDIT: Report the total score the evaluator claims (scoreVerification.reportedTotal) and your own ")
	sb.WriteString("arithmetic check of the awarded marks. Your audit fields are advisory; they are recomputed independently.\n\n")

	sb.WriteString("HARD RULES:\n")
	sb.WriteString("- Never fabricate anatomical content that is not present in the marking key.\n")
	sb.WriteString("- Never alter the marks awarded by the human evaluator.\n\n")

	sb.WriteString("Respond ONLY with a JSON object conforming to the provided schema. Any text outside the JSON is an error.\n")
	return sb.String()
}

// crossReference names both documents so the model can tell the sources
// apart regardless of upload order inside the request payload.
func crossReference(artifact, humanFeedback model.EncodedDocument) string {
	var sb strings.Builder
	sb.WriteString("Document 1 (artifact bundle: question paper, marking key, student script): ")
	sb.WriteString(artifact.Name)
	sb.WriteString("\nDocument 2 (human evaluator feedback): ")
	sb.WriteString(humanFeedback.Name)
	sb.WriteString("\n")
	return sb.String()
}
