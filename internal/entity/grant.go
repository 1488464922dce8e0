package entity

// UploadGrant is a time-limited, size-capped presigned POST target pointing
// at the raw-prefixed key of an asset. The size cap is enforced by the blob
// store at upload time.
type UploadGrant struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}
