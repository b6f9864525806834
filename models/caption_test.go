package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeCaptions(t *testing.T) {
	captions := []Caption{
		{Text: "a", UsageCount: 4, TotalRevenue: 100, ContentTypes: []string{"photo", "photo"}, MessageTypes: []string{"ppv"}},
		{Text: "b", UsageCount: 1, TotalRevenue: 50, ContentTypes: []string{"video"}, MessageTypes: []string{"ppv", "tip"}},
		{Text: "c", UsageCount: 5, TotalRevenue: 0},
	}

	a := SummarizeCaptions(captions)

	assert.Equal(t, 3, a.TotalCaptions)
	assert.Equal(t, int64(10), a.TotalUsage)
	assert.Equal(t, 150.0, a.TotalRevenue)
	assert.Equal(t, 15.0, a.AverageRevenuePerUse)
	assert.Equal(t, 100.0, a.RevenueByContentType["photo"])
	assert.Equal(t, 50.0, a.RevenueByContentType["video"])
	assert.Equal(t, 150.0, a.RevenueByMessageType["ppv"])
	assert.Equal(t, 50.0, a.RevenueByMessageType["tip"])
	assert.Equal(t, []string{"a", "b", "c"}, []string{a.TopCaptions[0].Text, a.TopCaptions[1].Text, a.TopCaptions[2].Text})
}

func TestSummarizeCaptionsEmpty(t *testing.T) {
	a := SummarizeCaptions(nil)
	assert.Equal(t, 0.0, a.AverageRevenuePerUse)
	assert.NotNil(t, a.TopCaptions)
	assert.Empty(t, a.TopCaptions)
}

func TestSummarizeCaptionsTopLimit(t *testing.T) {
	var captions []Caption
	for i := 0; i < 8; i++ {
		captions = append(captions, Caption{TotalRevenue: float64(i)})
	}
	a := SummarizeCaptions(captions)
	assert.Len(t, a.TopCaptions, TopCaptionsLimit)
	assert.Equal(t, 7.0, a.TopCaptions[0].TotalRevenue)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = NewPagination(1, 12, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestPipelineStatusValid(t *testing.T) {
	assert.Len(t, PipelineStatuses, 8)
	assert.True(t, PipelineStatus("review").Valid())
	assert.False(t, PipelineStatus("published").Valid())
	assert.True(t, ModelStatus("ARCHIVED").Valid())
	assert.False(t, ModelStatus("active").Valid())
}
