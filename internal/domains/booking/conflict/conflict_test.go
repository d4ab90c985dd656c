package conflict_test

import (
	"testing"
	"time"

	"sarana/internal/domains/booking/conflict"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return base.Add(time.Duration(hour) * time.Hour)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b conflict.Interval
		want bool
	}{
		{name: "touching end to start", a: conflict.Interval{Start: at(9), End: at(11)}, b: conflict.Interval{Start: at(11), End: at(12)}, want: false},
		{name: "touching start to end", a: conflict.Interval{Start: at(11), End: at(12)}, b: conflict.Interval{Start: at(9), End: at(11)}, want: false},
		{name: "inner window", a: conflict.Interval{Start: at(9), End: at(11)}, b: conflict.Interval{Start: at(10), End: at(10).Add(30 * time.Minute)}, want: true},
		{name: "containing window", a: conflict.Interval{Start: at(10), End: at(11)}, b: conflict.Interval{Start: at(8), End: at(12)}, want: true},
		{name: "partial overlap", a: conflict.Interval{Start: at(9), End: at(11)}, b: conflict.Interval{Start: at(10), End: at(12)}, want: true},
		{name: "identical", a: conflict.Interval{Start: at(9), End: at(11)}, b: conflict.Interval{Start: at(9), End: at(11)}, want: true},
		{name: "disjoint", a: conflict.Interval{Start: at(9), End: at(10)}, b: conflict.Interval{Start: at(13), End: at(14)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conflict.Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, conflict.Overlaps(tt.b, tt.a))
		})
	}
}

func TestInterval_Valid(t *testing.T) {
	assert.True(t, conflict.Interval{Start: at(9), End: at(10)}.Valid())
	assert.False(t, conflict.Interval{Start: at(10), End: at(10)}.Valid())
	assert.False(t, conflict.Interval{Start: at(11), End: at(10)}.Valid())
}

func TestFind(t *testing.T) {
	existing := []conflict.Booking{
		{ID: "a", Start: at(9), End: at(11), Status: "approved"},
		{ID: "b", Start: at(13), End: at(15), Status: "pending"},
	}

	t.Run("boundary accepted", func(t *testing.T) {
		_, found := conflict.Find(conflict.Query{Window: conflict.Interval{Start: at(11), End: at(13)}}, existing)
		assert.False(t, found)
	})

	t.Run("inner window rejected with the conflicting id", func(t *testing.T) {
		got, found := conflict.Find(conflict.Query{Window: conflict.Interval{Start: at(14), End: at(14).Add(time.Minute)}}, existing)
		assert.True(t, found)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("own request excluded on reschedule", func(t *testing.T) {
		_, found := conflict.Find(conflict.Query{Window: conflict.Interval{Start: at(9), End: at(10)}, ExcludeID: "a"}, existing)
		assert.False(t, found)
	})

	t.Run("whole unit blocked by any booking", func(t *testing.T) {
		got, found := conflict.Find(conflict.Query{Window: conflict.Interval{Start: at(20), End: at(21)}, Whole: true}, existing)
		assert.True(t, found)
		assert.Equal(t, "a", got.ID)
	})

	t.Run("empty set", func(t *testing.T) {
		_, found := conflict.Find(conflict.Query{Whole: true}, nil)
		assert.False(t, found)
	})
}
