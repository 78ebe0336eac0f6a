package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		minutes int
		wantErr error
	}{
		{name: "midnight", input: "00:00", want: "00:00", minutes: 0},
		{name: "morning", input: "09:30", want: "09:30", minutes: 570},
		{name: "last minute of day", input: "23:59", want: "23:59", minutes: 1439},
		{name: "hour out of range", input: "24:00", wantErr: ErrInvalidTimeFormat},
		{name: "minute out of range", input: "12:60", wantErr: ErrInvalidTimeFormat},
		{name: "not zero padded", input: "9:30", wantErr: ErrInvalidTimeFormat},
		{name: "with seconds", input: "09:30:00", wantErr: ErrInvalidTimeFormat},
		{name: "empty", input: "", wantErr: ErrInvalidTimeFormat},
		{name: "garbage", input: "ab:cd", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.minutes, got.Minutes())
		})
	}
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	got, err := NewTimeStringFromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.String())

	_, err = NewTimeStringFromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = NewTimeStringFromMinutes(1440)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2025, 10, 15, 14, 45, 59, 0, time.UTC))
	assert.Equal(t, "14:45", ts.String())
}

func TestTimeStringComparisons(t *testing.T) {
	nine, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)
	noon, err := NewTimeStringFromString("12:00")
	require.NoError(t, err)

	assert.True(t, nine.IsBefore(noon))
	assert.False(t, noon.IsBefore(nine))
	assert.True(t, noon.IsAfter(nine))
	assert.False(t, nine.IsAfter(nine))
	assert.True(t, nine.Equal(nine))
	assert.False(t, nine.Equal(noon))
}

func TestTimeStringAddMinutes(t *testing.T) {
	nine, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)

	later, err := nine.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "10:30", later.String())

	// Переход через полночь запрещён
	_, err = nine.AddMinutes(15 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = nine.AddMinutes(-10 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeStringZeroValue(t *testing.T) {
	var zero TimeString

	assert.True(t, zero.IsZero())
	assert.ErrorIs(t, zero.Validate(), ErrInvalidTimeFormat)

	parsed, err := NewTimeStringFromString("08:15")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())
	assert.NoError(t, parsed.Validate())
}

func TestTimeStringJSON(t *testing.T) {
	nine, err := NewTimeStringFromString("09:05")
	require.NoError(t, err)

	data, err := json.Marshal(nine)
	require.NoError(t, err)
	assert.Equal(t, `"09:05"`, string(data))

	var decoded TimeString
	require.NoError(t, json.Unmarshal([]byte(`"18:45"`), &decoded))
	assert.Equal(t, "18:45", decoded.String())

	var null TimeString
	require.NoError(t, json.Unmarshal([]byte("null"), &null))
	assert.True(t, null.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &decoded))
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30"))
	assert.Equal(t, "10:30", ts.String())

	// TIME колонки приходят как "HH:MM:SS"
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, "10:30", ts.String())

	require.NoError(t, ts.Scan([]byte("22:15")))
	assert.Equal(t, "22:15", ts.String())

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 7, 20, 0, 0, time.UTC)))
	assert.Equal(t, "07:20", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeStringValue(t *testing.T) {
	nine, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)

	v, err := nine.Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00", v)

	var zero TimeString
	v, err = zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
