package messaging

import (
	"testing"
	"time"

	"schoolboard/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(sid string, t time.Time) HistoryEntry {
	return HistoryEntry{SID: sid, DateSent: models.Timestamp{Time: t}}
}

func sids(entries []HistoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.SID)
	}
	return out
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, Day{Year: 2024, Month: time.March, Day: 5}, d)
	assert.Equal(t, "2024-03-05", d.String())

	_, err = ParseDay("05/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDay("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDayOf(t *testing.T) {
	lusaka := time.FixedZone("CAT", 2*60*60)
	late := time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, Day{2024, time.March, 5}, DayOf(late, time.UTC))
	assert.Equal(t, Day{2024, time.March, 6}, DayOf(late, lusaka))
}

func TestFilterHistory(t *testing.T) {
	loc := time.FixedZone("CAT", 2*60*60)
	history := []HistoryEntry{
		entryAt("SM1", time.Date(2024, 3, 5, 8, 0, 0, 0, loc)),
		entryAt("SM2", time.Date(2024, 3, 4, 23, 59, 0, 0, loc)),
		entryAt("SM3", time.Date(2024, 3, 5, 23, 59, 59, 0, loc)),
		// 22:30 UTC on the 4th is already the 5th in CAT
		entryAt("SM4", time.Date(2024, 3, 4, 22, 30, 0, 0, time.UTC)),
		{SID: "SM5"},
	}
	original := append([]HistoryEntry(nil), history...)

	t.Run("no filter keeps everything", func(t *testing.T) {
		got := FilterHistory(history, nil, loc)
		assert.Equal(t, []string{"SM1", "SM2", "SM3", "SM4", "SM5"}, sids(got))
	})

	t.Run("filter keeps the local calendar day in order", func(t *testing.T) {
		day := Day{2024, time.March, 5}
		got := FilterHistory(history, &day, loc)
		assert.Equal(t, []string{"SM1", "SM3", "SM4"}, sids(got))
	})

	t.Run("day without messages", func(t *testing.T) {
		day := Day{2024, time.January, 1}
		got := FilterHistory(history, &day, loc)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("clearing restores the full list", func(t *testing.T) {
		day := Day{2024, time.March, 4}
		assert.Equal(t, []string{"SM2"}, sids(FilterHistory(history, &day, loc)))
		assert.Len(t, FilterHistory(history, nil, loc), len(history))
	})

	t.Run("never mutates the input", func(t *testing.T) {
		day := Day{2024, time.March, 5}
		got := FilterHistory(history, &day, loc)
		got[0].SID = "changed"
		all := FilterHistory(history, nil, loc)
		all[1].SID = "changed"
		assert.Equal(t, original, history)
	})

	t.Run("nil history", func(t *testing.T) {
		assert.Empty(t, FilterHistory(nil, nil, loc))
	})
}
