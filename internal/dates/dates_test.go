package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsOnlyWellFormedDates(t *testing.T) {
	d, err := Parse("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", Format(d))

	for _, bad := range []string{"", "2024-1-3", "2024-02-30", "01-01-2024", "not-a-date", "2024-01-01T00:00:00Z"} {
		_, err := Parse(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	d, err := Parse("2024-01-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-04", Format(AddDays(d, 6)))
}

func TestWeekdayIndexMatchesConvention(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-06 a Saturday, 2024-01-07 a Sunday.
	mon, _ := Parse("2024-01-01")
	sat, _ := Parse("2024-01-06")
	sun, _ := Parse("2024-01-07")
	assert.Equal(t, 1, WeekdayIndex(mon))
	assert.Equal(t, 6, WeekdayIndex(sat))
	assert.Equal(t, 0, WeekdayIndex(sun))
}

func TestLabels(t *testing.T) {
	d, _ := Parse("2024-01-03")
	long, short := Labels(d)
	assert.Equal(t, "Wednesday", long)
	assert.Equal(t, "Wed", short)
}
