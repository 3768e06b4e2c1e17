package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverShortForm(t *testing.T) {
	text := "Some header\n" +
		"Stage Data: 1 --- 2 3\n" +
		"Cylinder Data: Throw 1 Throw 3 Throw 4 Throw 2\n"

	got := DiscoverCombinations(text)
	require.Equal(t, []string{
		"stage 1->throw 1",
		"stage 1->throw 3",
		"stage 2->throw 4",
		"stage 3->throw 2",
	}, got)
}

func TestDiscoverTabularForm(t *testing.T) {
	text := "Stage Number    1          2          3          4\n" +
		"Stage number at (HE/CE)    1/1        1/1        1/1        2/2        3/3        4/4\n" +
		"Frame Ext/Cyl. Bore        #/IN  1/26.500   3/26.500   5/26.500   2/26.500   4/15.000   6/ 9.500\n"

	got := DiscoverCombinations(text)
	require.Equal(t, []string{
		"stage 1->throw 1",
		"stage 1->throw 3",
		"stage 1->throw 5",
		"stage 2->throw 2",
		"stage 3->throw 4",
		"stage 4->throw 6",
	}, got)
}

func TestDiscoverMissingLines(t *testing.T) {
	assert.Empty(t, DiscoverCombinations(""))
	assert.Empty(t, DiscoverCombinations("just some text\nwith no stage rows"))
	assert.Empty(t, DiscoverCombinations("Stage Data: 1 2 3\n")) // no throw line
	assert.Empty(t, DiscoverCombinations("Cylinder Data: Throw 1 Throw 2\n"))
}

func TestDiscoverMisaligned(t *testing.T) {
	text := "Stage Data: 1 2 3\n" +
		"Cylinder Data: Throw 1 Throw 2\n"
	assert.Empty(t, DiscoverCombinations(text))
}

func TestDiscoverDuplicatePairs(t *testing.T) {
	// A repeated column for the same cylinder end collapses to one
	// combination; duplicates would stall the value-based Advance.
	text := "Stage Data: 1 1\n" +
		"Cylinder Data: Throw 1 Throw 1\n"
	require.Equal(t, []string{"stage 1->throw 1"}, DiscoverCombinations(text))

	text = "Stage Data: 1 1 2\n" +
		"Cylinder Data: Throw 1 Throw 1 Throw 2\n"
	require.Equal(t, []string{
		"stage 1->throw 1",
		"stage 2->throw 2",
	}, DiscoverCombinations(text))
}

func TestDiscoverLeadingRepeatMarker(t *testing.T) {
	text := "Stage Data: --- 1 2\n" +
		"Cylinder Data: Throw 1 Throw 2 Throw 3\n"
	assert.Empty(t, DiscoverCombinations(text))
}

func TestAdvance(t *testing.T) {
	combos := []string{"stage 1->throw 1", "stage 1->throw 3", "stage 2->throw 4"}

	assert.Equal(t, "stage 1->throw 3", Advance(combos, "stage 1->throw 1"))
	assert.Equal(t, "stage 2->throw 4", Advance(combos, "stage 1->throw 3"))
	assert.Equal(t, "", Advance(combos, "stage 2->throw 4")) // last element
	assert.Equal(t, "", Advance(combos, "not present"))
	assert.Equal(t, "", Advance(nil, "stage 1->throw 1"))
	assert.Equal(t, "", Advance(nil, ""))
}

func TestHasMore(t *testing.T) {
	combos := []string{"a", "b", "c"}
	assert.True(t, HasMore(combos, "a"))
	assert.True(t, HasMore(combos, "b"))
	assert.False(t, HasMore(combos, "c"))
	assert.False(t, HasMore(combos, "z"))
	assert.False(t, HasMore(nil, ""))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "stage_1_throw_3", SanitizeName("stage 1->throw 3"))
	assert.Equal(t, "stage_12_throw_4", SanitizeName("stage 12->throw 4"))
}
