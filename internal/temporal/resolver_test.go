package temporal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTagger struct {
	spans []nlp.Span
	err   error
}

func (s *stubTagger) Tag(_ context.Context, _ string) ([]nlp.Span, error) {
	return s.spans, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolverExtract_TaggedDates(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "2024-01-20", Label: nlp.LabelDate},
		{Text: "London", Label: nlp.LabelGPE},
		{Text: "yesterday", Label: nlp.LabelDate},
	}}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewResolver(tagger, WithClock(fixedClock(now)))

	ext, err := r.Extract(context.Background(), "Published on 2024-01-20. Updated yesterday in London.")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-20", "yesterday"}, ext.Expressions)
	require.Len(t, ext.ParsedDates, 2)
	assert.Equal(t, 2024, ext.ParsedDates[0].Year())
	assert.Equal(t, time.January, ext.ParsedDates[0].Month())
	assert.Equal(t, 20, ext.ParsedDates[0].Day())

	require.NotNil(t, ext.MostRecent)
	assert.Equal(t, time.February, ext.MostRecent.Month())
	assert.Equal(t, 29, ext.MostRecent.Day())
}

func TestResolverExtract_FallbackWhenTaggerFails(t *testing.T) {
	tagger := &stubTagger{err: errors.New("tagger down")}
	r := NewResolver(tagger, WithClock(fixedClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))))

	ext, err := r.Extract(context.Background(), "Report filed 2023-11-05 and again on 2023/12/01.")
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-11-05", "2023/12/01"}, ext.Expressions)
	assert.Len(t, ext.ParsedDates, 2)
}

func TestResolverExtract_DedupesExpressions(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "March 1987", Label: nlp.LabelDate},
		{Text: "March 1987", Label: nlp.LabelDate},
	}}
	r := NewResolver(tagger)

	ext, err := r.Extract(context.Background(), "March 1987 ... March 1987")
	require.NoError(t, err)
	assert.Equal(t, []string{"March 1987"}, ext.Expressions)
}

func TestResolverExtract_UnparseableKeptAsExpression(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "the distant past", Label: nlp.LabelDate},
	}}
	r := NewResolver(tagger)

	ext, err := r.Extract(context.Background(), "sometime in the distant past")
	require.NoError(t, err)
	assert.Equal(t, []string{"the distant past"}, ext.Expressions)
	assert.Empty(t, ext.ParsedDates)
	assert.Nil(t, ext.MostRecent)
}

func TestResolverExtract_EmptyText(t *testing.T) {
	r := NewResolver(&stubTagger{})
	ext, err := r.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ext.Expressions)
}

func TestIsMonthYearExpression(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		{"February 1987", true},
		{"Feb 1987", true},
		{"february 1987", true},
		{"26 February 1987", false},
		{"February 26, 1987", false},
		{"1987", false},
		{"February", false},
		{"2024-01-20", false},
		{"May 2020", true},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			assert.Equal(t, tc.want, IsMonthYearExpression(tc.expr))
		})
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(1987, 2, 26, 15, 1, 1, 0, time.UTC))
	assert.Equal(t, time.Date(1987, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(1987, 2, 28, 23, 59, 59, 0, time.UTC), to)
}

func TestDayRange(t *testing.T) {
	from, to := DayRange(time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC), to)
}
