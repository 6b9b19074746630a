package stdoutout

import (
	"bytes"
	"context"
	"testing"

	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

func TestAdapter_PostComment(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "adds trailing newline", body: "✅ ok", want: "✅ ok\n"},
		{name: "keeps existing newline", body: "❌ bad\n- a.yaml\n", want: "❌ bad\n- a.yaml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := New(&buf).PostComment(context.Background(), domain.CommentRequest{Body: tt.body}); err != nil {
				t.Fatalf("PostComment: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
