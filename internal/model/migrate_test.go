package model

import "testing"

func TestMigratePayload(t *testing.T) {
	t.Run("legacy elaborated feedback key", func(t *testing.T) {
		obj := map[string]any{
			"elaboratedGeneralisedFeedback": "good work overall",
		}
		out := MigratePayload(obj)
		if got, ok := out["generalisedFeedback"].(string); !ok || got != "good work overall" {
			t.Errorf("generalisedFeedback = %v, want migrated legacy value", out["generalisedFeedback"])
		}
		if _, ok := out["elaboratedGeneralisedFeedback"]; ok {
			t.Error("legacy key should be removed after migration")
		}
	})

	t.Run("canonical key wins over legacy", func(t *testing.T) {
		obj := map[string]any{
			"generalisedFeedback":           "canonical",
			"elaboratedGeneralisedFeedback": "legacy",
		}
		out := MigratePayload(obj)
		if got := out["generalisedFeedback"].(string); got != "canonical" {
			t.Errorf("generalisedFeedback = %q, want canonical value preserved", got)
		}
	})

	t.Run("fills absent allowed-empty sequences", func(t *testing.T) {
		out := MigratePayload(map[string]any{})
		if _, ok := out["finalizedFeedback"].([]any); !ok {
			t.Error("finalizedFeedback should be filled with an empty sequence")
		}
		if _, ok := out["actionSummary"].([]any); !ok {
			t.Error("actionSummary should be filled with an empty sequence")
		}
	})

	t.Run("present sequences untouched", func(t *testing.T) {
		obj := map[string]any{
			"actionSummary": []any{map[string]any{"task": "extract"}},
		}
		out := MigratePayload(obj)
		if got := out["actionSummary"].([]any); len(got) != 1 {
			t.Errorf("actionSummary length = %d, want 1", len(got))
		}
	})

	t.Run("nil map", func(t *testing.T) {
		if out := MigratePayload(nil); out != nil {
			t.Errorf("MigratePayload(nil) = %v, want nil", out)
		}
	})
}
