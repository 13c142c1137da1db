package planner

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

func scoredGrid(n int, r *rand.Rand) []types.ScoredLocation {
	out := make([]types.ScoredLocation, n)
	for i := range out {
		out[i] = types.ScoredLocation{
			Location: site(fmt.Sprintf("L%02d", i), r.Float64()*30+5, r.Float64()*30+68, "historical"),
			Score:    1 - float64(i)/float64(n+1),
		}
	}
	return out
}

func TestRouteSequencer_SelectCapsStops(t *testing.T) {
	seq := NewRouteSequencer(0)
	r := rand.New(rand.NewSource(3))

	for days := 1; days <= 8; days++ {
		for c := 0; c <= 12; c++ {
			t.Run(fmt.Sprintf("days=%d candidates=%d", days, c), func(t *testing.T) {
				selected := seq.Select(scoredGrid(c, r), days, nil, Anchors{})
				assert.Len(t, selected, min(2*days, c))
			})
		}
	}
}

func TestRouteSequencer_SelectKeepsTopScoredAndRequiredFirst(t *testing.T) {
	seq := NewRouteSequencer(2)
	ranked := scoredGrid(6, rand.New(rand.NewSource(1)))
	extra := types.ScoredLocation{Location: site("must", 10, 80, "religious")}

	selected := seq.Select(ranked, 1, []types.ScoredLocation{extra, ranked[3]}, Anchors{})

	assert.Equal(t, []string{"must", "L03"}, ids(selected))

	selected = seq.Select(ranked, 2, nil, Anchors{Start: &ranked[0]})
	assert.Equal(t, []string{"L01", "L02", "L03"}, ids(selected))
}

func TestRouteSequencer_OrderVisitsEveryStopOnce(t *testing.T) {
	seq := NewRouteSequencer(2)
	r := rand.New(rand.NewSource(11))

	for n := 0; n < 15; n++ {
		selected := scoredGrid(n, r)
		ordered := seq.Order(selected, coord(20, 78), Anchors{})

		require.Len(t, ordered, n)
		assert.ElementsMatch(t, ids(selected), ids(ordered))
	}
}

func TestRouteSequencer_OrderNearestNeighbour(t *testing.T) {
	seq := NewRouteSequencer(2)
	selected := []types.ScoredLocation{
		{Location: site("far", 0, 10, "x"), Score: 0.9},
		{Location: site("mid", 0, 5, "x"), Score: 0.8},
		{Location: site("near", 0, 1, "x"), Score: 0.7},
	}

	t.Run("starts nearest to the start coordinate", func(t *testing.T) {
		ordered := seq.Order(selected, coord(0, 0), Anchors{})
		assert.Equal(t, []string{"near", "mid", "far"}, ids(ordered))
	})

	t.Run("without a start the best scored stop leads", func(t *testing.T) {
		ordered := seq.Order(selected, nil, Anchors{})
		assert.Equal(t, []string{"far", "mid", "near"}, ids(ordered))
	})

	t.Run("fixed start and end anchors", func(t *testing.T) {
		start := types.ScoredLocation{Location: site("start", 0, 4, "x")}
		end := types.ScoredLocation{Location: site("end", 0, 0.5, "x")}
		ordered := seq.Order(selected, nil, Anchors{Start: &start, End: &end})
		assert.Equal(t, []string{"start", "mid", "near", "far", "end"}, ids(ordered))
	})
}
