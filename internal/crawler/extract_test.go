package crawler

import (
	"testing"
	"time"

	"sjsage522/lotwatcher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html>
<head><title>Boombox 36 W</title></head>
<body>
    <div class="lot">Boombox 36 W - Techbird</div>
    <script>
        window.__state = {"lot":{"activeLotId":"12345","tsExpires":"2022-06-01T10:00:00+0200","price":42}};
    </script>
</body>
</html>`

func TestRegexExtractor(t *testing.T) {
	lot, err := NewRegexExtractor("boombox").Extract([]byte(listingPage))
	require.NoError(t, err)

	assert.Equal(t, int64(12345), lot.ID)
	assert.Equal(t, int64(1654070400), lot.ExpiresAt.Unix())
	assert.True(t, lot.ExpiresAt.Equal(time.Date(2022, time.June, 1, 8, 0, 0, 0, time.UTC)))
}

func TestRegexExtractorFirstOccurrenceWins(t *testing.T) {
	page := `"activeLotId":"111","tsExpires":"2022-06-01T10:00:00+0000" ... "activeLotId":"222","tsExpires":"2023-01-01T00:00:00+0000"`

	lot, err := NewRegexExtractor("boombox").Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, int64(111), lot.ID)
	assert.Equal(t, 2022, lot.ExpiresAt.Year())
}

func TestRegexExtractorMissingMarkers(t *testing.T) {
	tests := map[string]string{
		"no lot id": `{"tsExpires":"2022-06-01T10:00:00+0200"}`,
		"no expiry": `{"activeLotId":"12345"}`,
		"neither":   `<html><body>Sold out</body></html>`,
		"empty id":  `{"activeLotId":"","tsExpires":"2022-06-01T10:00:00+0200"}`,
	}

	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			lot, err := NewRegexExtractor("boombox").Extract([]byte(page))
			assert.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
			assert.Zero(t, lot)
		})
	}
}

func TestParseExpiry(t *testing.T) {
	withoutColon, err := ParseExpiry("2022-06-01T10:00:00+0200")
	require.NoError(t, err)

	withColon, err := ParseExpiry("2022-06-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, withoutColon.Equal(withColon))

	negative, err := ParseExpiry("2022-06-01T03:00:00-0500")
	require.NoError(t, err)
	assert.True(t, negative.Equal(withoutColon))

	_, err = ParseExpiry("2022-06-01")
	assert.Error(t, err)
}

func TestDocumentExtractor(t *testing.T) {
	lot, err := NewDocumentExtractor("boombox").Extract([]byte(listingPage))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), lot.ID)
	assert.Equal(t, int64(1654070400), lot.ExpiresAt.Unix())
}

func TestDocumentExtractorPrefersScripts(t *testing.T) {
	// A marker quoted in the visible text must not shadow the one in the script
	page := `<html><body>
		<p>Example: "activeLotId":"1","tsExpires":"2020-01-01T00:00:00+0000"</p>
		<script>{"activeLotId":"777","tsExpires":"2022-06-01T10:00:00+0200"}</script>
	</body></html>`

	lot, err := NewDocumentExtractor("boombox").Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, int64(777), lot.ID)

	regexLot, err := NewRegexExtractor("boombox").Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, int64(1), regexLot.ID)
}

func TestDocumentExtractorFallsBackToBody(t *testing.T) {
	page := `{"activeLotId":"55","tsExpires":"2022-06-01T10:00:00+0200"}`

	lot, err := NewDocumentExtractor("boombox").Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, int64(55), lot.ID)

	_, err = NewDocumentExtractor("boombox").Extract([]byte(`<html><script>var x = 1;</script></html>`))
	assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
}
