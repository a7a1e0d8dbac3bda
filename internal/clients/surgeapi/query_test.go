package surgeapi

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_Empty(t *testing.T) {
	assert.Equal(t, "", BuildQuery(nil))
	assert.Equal(t, "", BuildQuery(Params{{"from", ""}, {"to", nil}}))

	var missing *float64
	assert.Equal(t, "", BuildQuery(Params{{"min_pct", missing}}))
}

func TestBuildQuery_OmitsAbsentAndEmpty(t *testing.T) {
	minPct := 20.0
	got := BuildQuery(Params{
		{"page", 1},
		{"limit", 20},
		{"from_date", ""},
		{"to_date", nil},
		{"min_pct", &minPct},
		{"sector", "Health Care"},
	})

	assert.Equal(t, "?page=1&limit=20&min_pct=20&sector=Health+Care", got)
}

func TestBuildQuery_PreservesOrder(t *testing.T) {
	assert.Equal(t, "?z=1&a=2&m=3", BuildQuery(Params{{"z", 1}, {"a", 2}, {"m", 3}}))
}

func TestBuildQuery_RoundTrip(t *testing.T) {
	params := Params{
		{"q", "a&b=c"},
		{"from", "2024-01-01"},
		{"skip", ""},
		{"ratio", 12.5},
		{"flag", true},
	}

	got := BuildQuery(params)
	require.True(t, strings.HasPrefix(got, "?"))

	parsed, err := url.ParseQuery(strings.TrimPrefix(got, "?"))
	require.NoError(t, err)

	assert.Equal(t, url.Values{
		"q":     {"a&b=c"},
		"from":  {"2024-01-01"},
		"ratio": {"12.5"},
		"flag":  {"true"},
	}, parsed)
}
