package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"flashdeck/internal/model"
)

func TestParseCards(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr error
		wantLen int
	}{
		{
			name:    "valid deck",
			raw:     `[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`,
			wantLen: 2,
		},
		{
			name:    "malformed json",
			raw:     `{broken`,
			wantErr: ErrParse,
		},
		{
			name:    "not an array",
			raw:     `{"front":"Q","back":"A"}`,
			wantErr: ErrNotArray,
		},
		{
			name:    "empty array",
			raw:     `[]`,
			wantErr: ErrEmptyFile,
		},
		{
			name:    "first element missing back",
			raw:     `[{"front":"Q"}]`,
			wantErr: ErrMissingFields,
		},
		{
			name:    "first element not an object",
			raw:     `["just a string"]`,
			wantErr: ErrMissingFields,
		},
		{
			// Only the first element's shape is checked.
			name:    "later element missing fields is accepted",
			raw:     `[{"front":"Q1","back":"A1"},{"front":"Q2"}]`,
			wantLen: 2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := ParseCards([]byte(tc.raw))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, cards, tc.wantLen)
		})
	}
}

func TestClean(t *testing.T) {
	cards := []model.Card{
		{Front: "  ", Back: "A"},
		{Front: "Q", Back: "A"},
		{Front: "Q2", Back: ""},
	}
	clean := Clean(cards)
	require.Equal(t, []model.Card{{Front: "Q", Back: "A"}}, clean)
}

func TestDeriveName(t *testing.T) {
	require.Equal(t, "capitals", DeriveName("/tmp/decks/capitals.json"))
	require.Equal(t, "geo", DeriveName("geo.JSON"))
	require.Equal(t, "plain", DeriveName("plain"))
}

func TestExportJSON(t *testing.T) {
	cards := []model.Card{
		{Front: "Q", Back: "A"},
		{Front: "", Back: "dropped"},
	}
	raw, err := ExportJSON(cards)
	require.NoError(t, err)

	var decoded []model.Card
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, []model.Card{{Front: "Q", Back: "A"}}, decoded)
	require.Contains(t, string(raw), "\n  ")
}

func TestExportJSONEmpty(t *testing.T) {
	_, err := ExportJSON([]model.Card{{Front: " ", Back: ""}})
	require.ErrorIs(t, err, ErrEmptyDeck)
}
