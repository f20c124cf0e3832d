package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeISO(t *testing.T) {
	d, err := Normalize("1923-04-17")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Date(1923, time.April, 17), *d)
	assert.Equal(t, time.UTC, d.Location())
}

func TestNormalizeUK(t *testing.T) {
	d, err := Normalize("17/04/1923")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Date(1923, time.April, 17), *d)
}

func TestNormalizeEmpty(t *testing.T) {
	d, err := Normalize("")
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestNormalizeRejectsImpossibleDate(t *testing.T) {
	for _, value := range []string{"31/02/2000", "2000-02-31", "00/01/1944", "32/01/1944"} {
		d, err := Normalize(value)
		assert.Nil(t, d, value)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, value)
		assert.Equal(t, value, formatErr.Value)
	}
}

func TestNormalizeRejectsOtherNotations(t *testing.T) {
	for _, value := range []string{"17-04-1923", "04/17/1923", "1923/04/17", "17 Apr 1923", "unknown"} {
		_, err := Normalize(value)
		var formatErr *FormatError
		assert.ErrorAs(t, err, &formatErr, value)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	d, err := Normalize("03/09/1939")
	require.NoError(t, err)
	assert.Equal(t, "1939-09-03", FormatISO(d))
	assert.Equal(t, "03/09/1939", FormatUK(d))
}

func TestFormatNil(t *testing.T) {
	assert.Equal(t, "", FormatISO(nil))
	assert.Equal(t, "", FormatUK(nil))
}

func TestParseInputFullYear(t *testing.T) {
	d, err := ParseInput("17/04/1923")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Date(1923, time.April, 17), *d)
}

func TestParseInputTwoDigitYearWindowing(t *testing.T) {
	cases := map[string]time.Time{
		"17/04/23": Date(1923, time.April, 17),
		"01/01/00": Date(1900, time.January, 1),
		"31/12/49": Date(1949, time.December, 31),
		"01/01/50": Date(1850, time.January, 1),
		"25/12/99": Date(1899, time.December, 25),
	}
	for input, want := range cases {
		d, err := ParseInput(input)
		require.NoError(t, err, input)
		require.NotNil(t, d, input)
		assert.Equal(t, want, *d, input)
	}
}

func TestParseInputLeapDayInvalidAfterWindowing(t *testing.T) {
	// 29/02/2000 exists, but the windowed year 1900 was not a leap year
	d, err := ParseInput("29/02/00")
	assert.Nil(t, d)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseInputEmpty(t *testing.T) {
	d, err := ParseInput("")
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestParseInputRejectsISO(t *testing.T) {
	_, err := ParseInput("1923-04-17")
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}
