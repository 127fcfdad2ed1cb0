package report

// SchemaJSON is the output contract sent with every generation request and
// enforced again by Validate on the way back. Every top-level key is
// required; only scoreVerification.discrepancyExplanation is optional.
// finalizedFeedback and actionSummary may be empty but must be present.
//
// The calculatedTotal and status the model returns under scoreVerification
// are advisory: Audit recomputes both from the extracted marks before the
// report is assembled.
const SchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "examReference": { "type": "string" },
    "evaluationType": { "type": "string" },
    "aiModelRole": { "type": "string" },
    "generalisedFeedback": { "type": "string" },
    "questionWiseFeedback": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "questionNo": { "type": "string" },
          "maxMarks": { "type": "string" },
          "marksAwarded": { "type": "string" },
          "keyAnswerPoints": { "type": "string" },
          "studentAnswerSummary": { "type": "string" },
          "humanFeedback": { "type": "string" },
          "aiFeedbackAddition": { "type": "string" }
        },
        "required": ["questionNo", "maxMarks", "marksAwarded", "keyAnswerPoints", "studentAnswerSummary", "humanFeedback", "aiFeedbackAddition"]
      }
    },
    "scoreVerification": {
      "type": "object",
      "properties": {
        "calculatedTotal": { "type": "number" },
        "reportedTotal": { "type": "number" },
        "status": { "type": "string", "enum": ["Correct", "Incorrect"] },
        "discrepancyExplanation": { "type": "string" }
      },
      "required": ["calculatedTotal", "reportedTotal", "status"]
    },
    "finalizedFeedback": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "section": { "type": "string" },
          "observation": { "type": "string" }
        },
        "required": ["section", "observation"]
      }
    },
    "actionSummary": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "task": { "type": "string" },
          "status": { "type": "string" },
          "evidence": { "type": "string" }
        },
        "required": ["task", "status", "evidence"]
      }
    }
  },
  "required": ["examReference", "evaluationType", "aiModelRole", "generalisedFeedback", "questionWiseFeedback", "scoreVerification", "finalizedFeedback", "actionSummary"]
}`
