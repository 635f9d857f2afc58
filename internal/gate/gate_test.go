package gate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"meeting-copilot/internal/llm"
	"meeting-copilot/internal/llm/mocks"
)

func TestGate_Classify(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		replyErr      error
		wantKnowledge bool
		wantPreview   string
	}{
		{
			name:          "known reply",
			reply:         "KNOWN: React is a JavaScript library for building user interfaces.",
			wantKnowledge: true,
			wantPreview:   "React is a JavaScript library for building user interfaces.",
		},
		{
			name:          "need context reply",
			reply:         "NEED_CONTEXT: Specific company policies",
			wantKnowledge: false,
			wantPreview:   "Specific company policies",
		},
		{
			name:          "known with surrounding whitespace",
			reply:         "  KNOWN: Short answer.  ",
			wantKnowledge: true,
			wantPreview:   "Short answer.",
		},
		{
			name:          "unexpected reply defaults to retrieval",
			reply:         "I am not sure what you are asking.",
			wantKnowledge: false,
			wantPreview:   "I am not sure what you are asking.",
		},
		{
			name:          "empty reply defaults to retrieval",
			reply:         "",
			wantKnowledge: false,
			wantPreview:   "",
		},
		{
			name:          "known prefix must be exact",
			reply:         "known: lowercase does not count",
			wantKnowledge: false,
		},
		{
			name:          "call failure defaults to retrieval",
			replyErr:      errors.New("upstream timeout"),
			wantKnowledge: false,
			wantPreview:   "Unable to determine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockClient := mocks.NewMockCompletionClient(ctrl)

			mockClient.EXPECT().
				Complete(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.reply, tt.replyErr)

			g := New(mockClient)
			decision := g.Classify(context.Background(), "What is React?")

			if decision.HasKnowledge != tt.wantKnowledge {
				t.Errorf("HasKnowledge = %v, want %v", decision.HasKnowledge, tt.wantKnowledge)
			}
			if tt.wantPreview != "" && decision.Preview != tt.wantPreview {
				t.Errorf("Preview = %q, want %q", decision.Preview, tt.wantPreview)
			}
		})
	}
}

func TestGate_Classify_PromptContainsTranscript(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockCompletionClient(ctrl)

	var captured string
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string, _ llm.CompleteOptions) (string, error) {
			captured = prompt
			return "KNOWN: ok", nil
		})

	g := New(mockClient)
	g.Classify(context.Background(), "What is the CAP theorem?")

	if !strings.Contains(captured, "What is the CAP theorem?") {
		t.Errorf("prompt should embed the transcript, got %q", captured)
	}
}
