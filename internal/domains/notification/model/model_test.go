package model_test

import (
	"testing"

	"sarana/internal/domains/notification/model"

	"github.com/stretchr/testify/assert"
)

func TestRecipients(t *testing.T) {
	managers := []string{"mgr-1", "member-1", "mgr-2", "mgr-1"}

	tests := []struct {
		kind model.Kind
		want []string
	}{
		{model.KindRequestSubmitted, []string{"member-1", "mgr-1", "mgr-2"}},
		{model.KindRequestCancelled, []string{"member-1", "mgr-1", "mgr-2"}},
		{model.KindRequestApproved, []string{"member-1"}},
		{model.KindRequestRejected, []string{"member-1"}},
		{model.KindRequestCompleted, []string{"member-1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, model.Recipients(tt.kind, "member-1", managers))
		})
	}
}
