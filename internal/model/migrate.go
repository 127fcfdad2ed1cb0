package model

// Earlier iterations of the report format drifted: some payloads carry the
// elaborated feedback under "elaboratedGeneralisedFeedback", some omit
// "actionSummary" or "finalizedFeedback" entirely. MigratePayload folds
// those known legacy shapes into the canonical one so the validator only
// ever has to reason about a single schema.
//
// Migration is shape-only: it renames keys and fills allowed-empty
// sequences. It never invents required values, so a payload that is
// missing a genuinely required field still fails validation afterwards.
func MigratePayload(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}

	if _, ok := obj["generalisedFeedback"]; !ok {
		if legacy, ok := obj["elaboratedGeneralisedFeedback"]; ok {
			obj["generalisedFeedback"] = legacy
			delete(obj, "elaboratedGeneralisedFeedback")
		}
	}

	// finalizedFeedback and actionSummary are allowed-empty; absent means
	// the older shape that predates them.
	if _, ok := obj["finalizedFeedback"]; !ok {
		obj["finalizedFeedback"] = []any{}
	}
	if _, ok := obj["actionSummary"]; !ok {
		obj["actionSummary"] = []any{}
	}

	return obj
}
