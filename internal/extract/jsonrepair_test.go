package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSONClosesMissingBraces(t *testing.T) {
	broken := `{"invoice_number": "3341219", "line_items": [{"description": "skrue"}`

	fixed := RepairJSON(broken)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, "3341219", parsed["invoice_number"])
}

func TestRepairJSONTerminatesOpenString(t *testing.T) {
	broken := `{"supplier_name": "Danfoss A/S`

	fixed := RepairJSON(broken)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, "Danfoss A/S", parsed["supplier_name"])
}

func TestRepairJSONEscapesNewlinesInStrings(t *testing.T) {
	broken := "{\"description\": \"linje et\nlinje to\"}"

	fixed := RepairJSON(broken)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, "linje et\nlinje to", parsed["description"])
}

func TestRepairJSONLeavesValidInputAlone(t *testing.T) {
	valid := `{"currency": "DKK", "items": [1, 2, 3]}`
	assert.Equal(t, valid, RepairJSON(valid))
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
		{"  ```json\n{}\n```  ", "{}"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripCodeFence(c.in))
	}
}

func TestTruncateToObject(t *testing.T) {
	in := `{"payment_method_type": "FIK", "nested": {"x": 1}} Here is the extracted data.`
	assert.Equal(t, `{"payment_method_type": "FIK", "nested": {"x": 1}}`, TruncateToObject(in))

	// Non-object content passes through untouched.
	assert.Equal(t, "not json", TruncateToObject("not json"))
}
