package analytics

import (
	"context"
	"testing"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	temporalReq TemporalRequest
	topN        int
}

func (f *fakeSource) TemporalDistribution(_ context.Context, req TemporalRequest) (*TemporalDistribution, error) {
	f.temporalReq = req
	return &TemporalDistribution{Interval: req.Interval}, nil
}

func (f *fakeSource) GeoreferenceStats(_ context.Context, topN int) (*GeoreferenceStats, error) {
	f.topN = topN
	return &GeoreferenceStats{}, nil
}

func (f *fakeSource) AuthorStats(_ context.Context, topN int) (*AuthorStats, error) {
	f.topN = topN
	return &AuthorStats{}, nil
}

func (f *fakeSource) Overview(_ context.Context) (*Overview, error) {
	return &Overview{TotalDocuments: 42}, nil
}

func TestTemporalDistribution_IntervalValidation(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src)

	_, err := svc.TemporalDistribution(context.Background(), TemporalRequest{Interval: "decade"})
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)

	dist, err := svc.TemporalDistribution(context.Background(), TemporalRequest{})
	require.NoError(t, err)
	assert.Equal(t, "month", dist.Interval)

	_, err = svc.TemporalDistribution(context.Background(), TemporalRequest{Interval: "week"})
	require.NoError(t, err)
	assert.Equal(t, "week", src.temporalReq.Interval)
}

func TestTemporalDistribution_DateWindow(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src)

	_, err := svc.TemporalDistribution(context.Background(), TemporalRequest{
		Interval: "year",
		DateFrom: "1987-01-01",
		DateTo:   "1987-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "1987-01-01", src.temporalReq.DateFrom)
	assert.Equal(t, "1987-12-31", src.temporalReq.DateTo)

	_, err = svc.TemporalDistribution(context.Background(), TemporalRequest{DateFrom: "yesterday"})
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTopNClamping(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src)

	_, err := svc.GeoreferenceStats(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, defaultTopN, src.topN)

	_, err = svc.AuthorStats(context.Background(), 101)
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AuthorStats(context.Background(), -5)
	assert.ErrorAs(t, err, &verr)
}
