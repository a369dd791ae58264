package cartstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLineIncFirst(t *testing.T) {
	incs, pushes := 0, 0
	err := mergeLine(
		func() (bool, error) { incs++; return true, nil },
		func() (bool, error) { pushes++; return true, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, incs)
	assert.Equal(t, 0, pushes, "a matched increment must not append")
}

func TestMergeLineFallsBackToPush(t *testing.T) {
	pushes := 0
	err := mergeLine(
		func() (bool, error) { return false, nil },
		func() (bool, error) { pushes++; return true, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, pushes)
}

// Two adds race on a cart with no line for the product: both miss the
// increment, but the append's precondition lets only one through. The loser
// retries the increment and lands on the winner's line, so the cart ends with
// a single line at the combined quantity.
func TestMergeLineConcurrentAddsSingleLine(t *testing.T) {
	var mu sync.Mutex
	lines := map[string]int{}

	add := func(qty int) error {
		return mergeLine(
			func() (bool, error) {
				mu.Lock()
				defer mu.Unlock()
				if _, ok := lines["prod-uno-r3"]; !ok {
					return false, nil
				}
				lines["prod-uno-r3"] += qty
				return true, nil
			},
			func() (bool, error) {
				mu.Lock()
				defer mu.Unlock()
				if _, ok := lines["prod-uno-r3"]; ok {
					return false, nil
				}
				lines["prod-uno-r3"] = qty
				return true, nil
			},
		)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, add(2))
		}()
	}
	wg.Wait()

	require.Len(t, lines, 1, "racing adds must not duplicate the line")
	assert.Equal(t, 16, lines["prod-uno-r3"])
}

func TestMergeLineGivesUpWhenNeitherHalfMatches(t *testing.T) {
	err := mergeLine(
		func() (bool, error) { return false, nil },
		func() (bool, error) { return false, nil },
	)
	assert.Error(t, err)
}
