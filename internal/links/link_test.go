// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package links_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/linkbridge/internal/links"
)

// The repository persists both collections as JSONB columns, encoded with
// encoding/json. Everything the service needs after a reload has to survive
// that round trip — in particular the icon's storage key, without which old
// icon assets could never be cleaned up on replace or delete.
func TestCustomLink_StorageEncodingKeepsIconAssetID(t *testing.T) {
	original := []links.CustomLink{{
		ID:          "entry-1",
		Title:       "My site",
		URL:         "https://example.com",
		IconURL:     "https://cdn.example.com/link-icons/abc.png",
		IconAssetID: "link-icons/abc.png",
		ClickCount:  2,
		ClickHistory: []links.Click{
			{ClickedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			{ClickedAt: time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC)},
		},
	}}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"iconAssetId":"link-icons/abc.png"`)

	var decoded []links.CustomLink
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, original[0].IconAssetID, decoded[0].IconAssetID)
	assert.Equal(t, original[0].ClickCount, decoded[0].ClickCount)
	assert.Len(t, decoded[0].ClickHistory, 2)
}
