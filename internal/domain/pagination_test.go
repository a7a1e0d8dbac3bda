package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 20))
	assert.Equal(t, 1, PageCount(1, 20))
	assert.Equal(t, 1, PageCount(20, 20))
	assert.Equal(t, 2, PageCount(21, 20))
	assert.Equal(t, 0, PageCount(10, 0))
}

func TestPageCount_MatchesCeil(t *testing.T) {
	for total := 0; total <= 250; total++ {
		for _, limit := range []int{1, 3, 7, 20, 100} {
			want := int(math.Ceil(float64(total) / float64(limit)))
			got := PageCount(total, limit)
			assert.Equal(t, want, got, "total=%d limit=%d", total, limit)
			assert.Equal(t, total == 0, got == 0, "total=%d limit=%d", total, limit)
		}
	}
}

func TestPage_Consistent(t *testing.T) {
	empty := Page[SurgeEvent]{Items: []SurgeEvent{}, Total: 0, Page: 1, Limit: 20, Pages: 0}
	assert.True(t, empty.Consistent())
	assert.True(t, empty.Empty())

	full := Page[SurgeEvent]{Total: 45, Page: 3, Limit: 20, Pages: 3}
	assert.True(t, full.Consistent())

	assert.False(t, Page[SurgeEvent]{Total: 45, Page: 4, Limit: 20, Pages: 3}.Consistent())
	assert.False(t, Page[SurgeEvent]{Total: 45, Page: 1, Limit: 20, Pages: 2}.Consistent())
	assert.False(t, Page[SurgeEvent]{Total: 45, Page: 1, Limit: 0, Pages: 0}.Consistent())
}

func TestDefaultSurgeFilters(t *testing.T) {
	assert.Equal(t, SurgeFilters{Page: 1, Limit: 20}, DefaultSurgeFilters(0))
	assert.Equal(t, SurgeFilters{Page: 1, Limit: 50}, DefaultSurgeFilters(50))
}
