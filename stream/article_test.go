package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformEnriched_CoercesWireShapes(t *testing.T) {
	raw := json.RawMessage(`{
		"link": "https://example.com/a",
		"title": "headline",
		"publishDate": "2024-01-01T00:00:00Z",
		"source": "wire",
		"language": "en",
		"confidence": "0.5",
		"createdAt": "2024-01-02T00:00:00Z",
		"companies": [{"name": "Acme", "confidence": "0.75"}],
		"categories": ["markets"],
		"countries": ["US"]
	}`)

	a, err := TransformEnriched(raw)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/a", a.Link)
	assert.Equal(t, 0.5, a.Confidence)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a.PublishDate.UTC())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), a.CreatedAt.UTC())
	require.Len(t, a.Companies, 1)
	assert.Equal(t, "Acme", a.Companies[0].Name)
	assert.Equal(t, 0.75, a.Companies[0].Confidence)
	assert.Equal(t, []string{"markets"}, a.Categories)
}

func TestTransformEnriched_AbsentOptionalFieldsDefault(t *testing.T) {
	raw := json.RawMessage(`{"link":"l","title":"t","source":"s","language":"en"}`)

	a, err := TransformEnriched(raw)
	require.NoError(t, err)

	assert.True(t, a.PublishDate.IsZero())
	assert.Equal(t, float64(0), a.Confidence)
	assert.Nil(t, a.Companies)
}

func TestTransformRaw_OnlyCoercesPublishDate(t *testing.T) {
	raw := json.RawMessage(`{
		"link": "l",
		"title": "t",
		"publishDate": "2024-06-15T08:00:00Z",
		"source": "s",
		"language": "en",
		"confidence": "0.9"
	}`)

	a, err := TransformRaw(raw)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC), a.PublishDate.UTC())
}

func TestTransformEnriched_MalformedJSONErrors(t *testing.T) {
	_, err := TransformEnriched(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestParseConfidence_HandlesNumericAndEmpty(t *testing.T) {
	assert.Equal(t, 0.42, ParseConfidence(json.RawMessage(`0.42`)))
	assert.Equal(t, float64(0), ParseConfidence(json.RawMessage(`""`)))
	assert.Equal(t, float64(0), ParseConfidence(json.RawMessage(`null`)))
	assert.Equal(t, float64(0), ParseConfidence(nil))
}

func TestParsePublishDate_NullYieldsZeroTime(t *testing.T) {
	assert.True(t, ParsePublishDate(json.RawMessage(`null`)).IsZero())
	assert.True(t, ParsePublishDate(nil).IsZero())
}
