package model_test

import (
	"testing"

	"sarana/internal/domains/booking/model"
	"sarana/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	allowed := map[model.Status][]model.Status{
		model.StatusPending:  {model.StatusApproved, model.StatusRejected, model.StatusCancelled},
		model.StatusApproved: {model.StatusCompleted, model.StatusCancelled},
	}

	all := []model.Status{model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCancelled, model.StatusCompleted}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}

			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)

			err := model.Transition(from, to)
			if want {
				assert.NoError(t, err)

				continue
			}

			var f *failure.Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, failure.KindInvalidState, f.Kind)
			assert.Equal(t, string(from), f.Details["current_status"])
			assert.Equal(t, string(to), f.Details["attempted"])
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.Terminal())
	assert.False(t, model.StatusApproved.Terminal())
	assert.True(t, model.StatusRejected.Terminal())
	assert.True(t, model.StatusCancelled.Terminal())
	assert.True(t, model.StatusCompleted.Terminal())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"pending", "approved"}, model.StatusStrings(model.ActiveStatuses...))
}
