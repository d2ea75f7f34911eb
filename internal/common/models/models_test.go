package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"String", `"8f7c"`, "8f7c", false},
		{"Integer", `42`, "42", false},
		{"Null", `null`, "", false},
		{"Object", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("with zone", func(t *testing.T) {
		got, err := ParseTimestamp("2024-03-05T10:15:00Z")
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC)))
	})

	t.Run("without zone is local", func(t *testing.T) {
		got, err := ParseTimestamp("2024-03-05T10:15:00.123456")
		require.NoError(t, err)
		assert.Equal(t, time.Local, got.Location())
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("space separated", func(t *testing.T) {
		got, err := ParseTimestamp("2024-03-05 10:15:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, 8, got.UTC().Hour())
	})

	t.Run("empty", func(t *testing.T) {
		got, err := ParseTimestamp("")
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseTimestamp("yesterday")
		assert.Error(t, err)
	})
}

func TestTimestamp_JSON(t *testing.T) {
	var payload struct {
		At Timestamp `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-05T10:15:00Z"}`), &payload))
	assert.Equal(t, 2024, payload.At.Year())

	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &payload))
	assert.True(t, payload.At.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(out))
}
