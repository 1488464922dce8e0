package response

type Error struct {
	Error string `json:"error"`
}

type UploadGrant struct {
	AssetID string            `json:"asset_id"`
	Status  string            `json:"status"`
	URL     string            `json:"url"`
	Fields  map[string]string `json:"fields"`
}
