package domain

import "testing"

func TestRenderComment(t *testing.T) {
	tests := []struct {
		name   string
		result AggregatedResult
		want   string
	}{
		{
			name:   "no failures",
			result: AggregatedResult{},
			want:   "✅ **Linting passed for all changed files**",
		},
		{
			name:   "single failure",
			result: AggregatedResult{FailedPaths: []string{"a.yaml"}},
			want:   "❌ **Linting failed for the following files:**\n- a.yaml\n",
		},
		{
			name:   "multiple failures in order",
			result: AggregatedResult{FailedPaths: []string{"deploy/z.yml", "deploy/a.yaml"}},
			want:   "❌ **Linting failed for the following files:**\n- deploy/z.yml\n- deploy/a.yaml\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderComment(tt.result)
			if got != tt.want {
				t.Errorf("RenderComment() = %q, want %q", got, tt.want)
			}
			if again := RenderComment(tt.result); again != got {
				t.Errorf("RenderComment() not deterministic: %q vs %q", got, again)
			}
		})
	}
}
