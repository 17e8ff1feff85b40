package canonical_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Marshal(t *testing.T) {
	type record struct {
		Zeta  string  `json:"zeta"`
		Alpha *string `json:"alpha"`
		Count int     `json:"count"`
	}

	type table struct {
		name  string
		value any
		exp   string
	}

	tt := []table{
		{
			name:  "string",
			value: "hello",
			exp:   `"hello"`,
		},
		{
			name:  "sorted",
			value: map[string]int{"Bob": 50, "Alice": 50},
			exp:   `{"Alice": 50, "Bob": 50}`,
		},
		{
			name:  "struct",
			value: record{Zeta: "z", Count: 1},
			exp:   `{"alpha": null, "count": 1, "zeta": "z"}`,
		},
		{
			name: "nested",
			value: map[string]any{
				"b": "\u00e9\u007f\n\"<>&",
				"a": []any{1, map[string]any{"z": nil, "y": true}},
				"\U0001F600": 1,
			},
			exp: `{"a": [1, {"y": true, "z": null}], "b": "\u00e9\u007f\n\"<>&", "\ud83d\ude00": 1}`,
		},
		{
			name:  "negative",
			value: map[string]int64{"Alice": -3, "Bob": 3},
			exp:   `{"Alice": -3, "Bob": 3}`,
		},
		{
			name:  "empty",
			value: []map[string]int{},
			exp:   `[]`,
		},
	}

	t.Log("Given the need to produce a canonical encoding.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s value.", testID, tst.name)
			{
				f := func(t *testing.T) {
					data, err := canonical.Marshal(tst.value)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to marshal the value: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to marshal the value.", success, testID)

					if string(data) != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, data)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the canonical form.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the canonical form.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MarshalUnsupported(t *testing.T) {
	if _, err := canonical.Marshal(make(chan int)); err == nil {
		t.Fatalf("\t%s\tShould not be able to marshal a channel.", failed)
	}
	t.Logf("\t%s\tShould not be able to marshal a channel.", success)
}
