package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAvailability_FullGrid(t *testing.T) {
	got := ComputeAvailability(nil)

	require.Len(t, got, SlotCount())
	assert.Equal(t, 48, SlotCount())

	assert.Equal(t, "06:00", got[0].Time)
	assert.Equal(t, 1, got[0].CourtNumber)
	assert.Equal(t, "21:00", got[len(got)-1].Time)
	assert.Equal(t, 3, got[len(got)-1].CourtNumber)

	for i, s := range got {
		assert.True(t, s.Available, "slot %d should be free", i)
	}
}

func TestComputeAvailability_Ordering(t *testing.T) {
	got := ComputeAvailability(nil)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Time == cur.Time {
			assert.Equal(t, prev.CourtNumber+1, cur.CourtNumber, "courts ascend within %s", cur.Time)
		} else {
			assert.Less(t, prev.Time, cur.Time)
			assert.Equal(t, 3, prev.CourtNumber)
			assert.Equal(t, 1, cur.CourtNumber)
		}
	}
}

func TestComputeAvailability_MarksOccupied(t *testing.T) {
	occupied := map[Key]bool{
		{Time: "10:00", Court: 1}: true,
		{Time: "21:00", Court: 3}: true,
	}

	got := ComputeAvailability(occupied)

	unavailable := 0
	for _, s := range got {
		if !s.Available {
			unavailable++
			assert.True(t, occupied[Key{Time: s.Time, Court: s.CourtNumber}])
		}
	}
	assert.Equal(t, 2, unavailable)
}

func TestNormalizeStartTime(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "10:00", want: "10:00"},
		{input: "06:00", want: "06:00"},
		{input: "21:00", want: "21:00"},
		{input: "09:00:00", want: "09:00"},
		{input: " 9:00", want: "09:00"},
		{input: "10:30", wantErr: ErrNotWholeHour},
		{input: "05:00", wantErr: ErrOutsideGrid},
		{input: "22:00", wantErr: ErrOutsideGrid},
		{input: "noon", wantErr: ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeStartTime(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndTime(t *testing.T) {
	end, err := EndTime("10:00")
	require.NoError(t, err)
	assert.Equal(t, "11:00", end)

	end, err = EndTime("21:00")
	require.NoError(t, err)
	assert.Equal(t, "22:00", end)

	_, err = EndTime("x")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestHourOf(t *testing.T) {
	h, err := HourOf("09:00")
	require.NoError(t, err)
	assert.Equal(t, 9, h)

	h, err = HourOf("7:30")
	require.NoError(t, err)
	assert.Equal(t, 7, h)

	for _, bad := range []string{"", "09", "ab:00", "25:00", "123:00"} {
		_, err := HourOf(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("01/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
