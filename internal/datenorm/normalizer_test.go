package datenorm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = MustLoadLocation(DefaultTimezone)

func TestTranslate(t *testing.T) {
	assert.Equal(t, "tomorrow", Translate("明日"))
	assert.Equal(t, "two years ago", Translate("一昨年"))
	assert.Equal(t, "3月5日", Translate("3月5日"), "unmapped input passes through")
	assert.Len(t, RelativeWords(), 21)
}

func TestNormalize_Tomorrow(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 1, 10, 12, 0, 0, 0, jst)

	for _, expr := range []string{"tomorrow", "明日"} {
		t.Run(expr, func(t *testing.T) {
			got, ok := n.Normalize(expr, ref)
			require.True(t, ok)
			require.NotNil(t, got)

			parsed, err := time.Parse(time.RFC3339, got.ISO)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(ref.Add(24*time.Hour)), "got %s", got.ISO)
			assert.True(t, got.IsFuture)
			assert.False(t, got.IsRepeated)
			assert.Equal(t, expr, got.Original)
		})
	}
}

func TestNormalize_PastIsNotFuture(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 1, 10, 12, 0, 0, 0, jst)

	got, ok := n.Normalize("昨日", ref)
	require.True(t, ok)
	assert.False(t, got.IsFuture)
	assert.Equal(t, "2025-01-09T12:00:00+09:00", got.ISO)
}

func TestNormalize_ResultInTargetZone(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)

	got, ok := n.Normalize("今日", ref)
	require.True(t, ok)
	assert.Contains(t, got.ISO, "+09:00")
}

func TestNormalize_Holiday(t *testing.T) {
	n := NewNormalizer(NewHolidays("2025-01-13"), nil)
	ref := time.Date(2025, 1, 12, 9, 0, 0, 0, jst)

	got, ok := n.Normalize("明日", ref)
	require.True(t, ok)
	assert.True(t, got.IsHoliday)

	got, ok = n.Normalize("今日", ref)
	require.True(t, ok)
	assert.False(t, got.IsHoliday)
}

func TestNormalize_Unparseable(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 1, 10, 12, 0, 0, 0, jst)

	got, ok := n.Normalize("zzzz", ref)
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok = n.Normalize("  ", ref)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNormalizeAll_DropsFailures(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 1, 10, 12, 0, 0, 0, jst)

	got := n.NormalizeAll([]string{"明日", "zzzz", "来週"}, ref)
	require.Len(t, got, 2)
	assert.Equal(t, "明日", got[0].Original)
	assert.Equal(t, "来週", got[1].Original)
}

func TestLoadHolidays(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syukujitsu.csv")
	content := "国民の祝日・休日月日,国民の祝日・休日名称\n2025/1/1,元日\n2025-01-13,成人の日\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	h := LoadHolidays(path)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains("2025-01-01"))
	assert.True(t, h.Contains("2025-01-13"))
	assert.False(t, h.Contains("2025-01-02"))
}

func TestLoadHolidays_MissingFile(t *testing.T) {
	h := LoadHolidays(filepath.Join(t.TempDir(), "missing.csv"))

	assert.Equal(t, 0, h.Len())
	assert.True(t, h.Contains(NoHolidaysSentinel))
	assert.False(t, h.Contains("2025-01-01"))
}

func TestNormalize_EveryRelativeWord(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 8, 17, 12, 0, 0, 0, jst)

	for _, word := range RelativeWords() {
		t.Run(word, func(t *testing.T) {
			got, ok := n.Normalize(word, ref)
			require.True(t, ok, "%s (%s) should parse", word, Translate(word))
			assert.Contains(t, got.ISO, "+09:00")
		})
	}
}

func TestNormalize_AfterNext(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 8, 17, 12, 0, 0, 0, jst)

	tests := []struct {
		expr string
		date string
	}{
		{"再来週", "2025-08-31"},
		{"再来月", "2025-10-17"},
		{"再来年", "2027-08-17"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := n.Normalize(tt.expr, ref)
			require.True(t, ok)
			assert.Equal(t, tt.date, got.ISO[:10])
			assert.True(t, got.IsFuture)
		})
	}
}

func TestNormalize_CalendarDates(t *testing.T) {
	n := NewNormalizer(NewHolidays("2025-09-15"), nil)
	ref := time.Date(2025, 8, 17, 12, 0, 0, 0, jst) // Sunday

	tests := []struct {
		expr    string
		iso     string
		future  bool
		holiday bool
	}{
		{"8月20日", "2025-08-20T00:00:00+09:00", true, false},
		{"８月２０日", "2025-08-20T00:00:00+09:00", true, false},
		{"8月 20日", "2025-08-20T00:00:00+09:00", true, false},
		{"8月17日", "2025-08-17T00:00:00+09:00", false, false},
		{"8月10日", "2026-08-10T00:00:00+09:00", true, false},
		{"9月15日", "2025-09-15T00:00:00+09:00", true, true},
		{"2月29日", "2028-02-29T00:00:00+09:00", true, false},
		{"2024年12月25日", "2024-12-25T00:00:00+09:00", false, false},
		{"来週の金曜日", "2025-08-22T00:00:00+09:00", true, false},
		{"今週の金曜", "2025-08-15T00:00:00+09:00", false, false},
		{"再来週の月曜日", "2025-08-25T00:00:00+09:00", true, false},
		{"先週の水曜日", "2025-08-06T00:00:00+09:00", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := n.Normalize(tt.expr, ref)
			require.True(t, ok)
			assert.Equal(t, tt.iso, got.ISO)
			assert.Equal(t, tt.future, got.IsFuture)
			assert.Equal(t, tt.holiday, got.IsHoliday)
			assert.Equal(t, tt.expr, got.Original)
		})
	}
}

func TestNormalize_ImpossibleCalendarDate(t *testing.T) {
	n := NewNormalizer(nil, nil)
	ref := time.Date(2025, 8, 17, 12, 0, 0, 0, jst)

	for _, expr := range []string{"2月30日", "13月1日", "2025年2月29日"} {
		got, ok := n.Normalize(expr, ref)
		assert.False(t, ok, expr)
		assert.Nil(t, got, expr)
	}
}
