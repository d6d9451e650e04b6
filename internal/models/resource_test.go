package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expected      ResourceID
		expectedError bool
	}{
		{name: "number", input: `42`, expected: "42"},
		{name: "string", input: `"main-42"`, expected: "main-42"},
		{name: "numeric string", input: `"7"`, expected: "7"},
		{name: "null", input: `null`, expected: ""},
		{name: "boolean", input: `true`, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ResourceID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestResourceID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id       ResourceID
		expected string
	}{
		{id: "42", expected: `42`},
		{id: "0", expected: `0`},
		{id: "007", expected: `"007"`},
		{id: "hbg-3", expected: `"hbg-3"`},
		{id: "-1", expected: `"-1"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			out, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSortOrder("popular"))
	assert.Equal(t, SortAZ, ParseSortOrder("a-z"))
	assert.Equal(t, SortZA, ParseSortOrder("z-a"))
	assert.Equal(t, SortNewest, ParseSortOrder("newest"))
	assert.Equal(t, SortNewest, ParseSortOrder("random"))
}
