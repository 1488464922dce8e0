package dto

import "github.com/andreyxaxa/asset-pipeline/internal/entity"

type AssetURLs struct {
	URL      string `json:"url"`
	HiResURL string `json:"hi_res_url,omitempty"`
}

type Asset struct {
	*entity.Asset
	URLs *AssetURLs `json:"urls,omitempty"`
}

type AssetPage struct {
	Assets     []*Asset `json:"assets"`
	NextCursor string   `json:"next_cursor,omitempty"`
}
