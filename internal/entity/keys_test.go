package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
)

func TestObjectKeys(t *testing.T) {
	require.Equal(t, "owner/u1/raw/a1", entity.RawKey("u1", "a1"))
	require.Equal(t, "owner/u1/base/a1", entity.BaseKey("u1", "a1"))
	require.Equal(t, "owner/u1/hiRes/a1", entity.HiResKey("u1", "a1"))
}

func TestParseRawKey(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		ownerID string
		assetID string
		ok      bool
	}{
		{"plain raw key", "owner/u1/raw/a1", "u1", "a1", true},
		{"leading slash", "/owner/u1/raw/a1", "u1", "a1", true},
		{"spaces in asset id", "owner/u1/raw/my photo.jpg", "u1", "my photo.jpg", true},
		{"roundtrip", entity.RawKey("owner-42", "asset-7"), "owner-42", "asset-7", true},
		{"base prefix", "owner/u1/base/a1", "", "", false},
		{"hiRes prefix", "owner/u1/hiRes/a1", "", "", false},
		{"foreign top segment", "user/u1/raw/a1", "", "", false},
		{"trailing segment", "owner/u1/raw/a1/extra", "", "", false},
		{"missing asset id", "owner/u1/raw/", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ownerID, assetID, ok := entity.ParseRawKey(tc.key)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.ownerID, ownerID)
			require.Equal(t, tc.assetID, assetID)
		})
	}
}
