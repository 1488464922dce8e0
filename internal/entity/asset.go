package entity

import "time"

const EntityTypeAsset = "asset"

type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

type Asset struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`

	Status           AssetStatus `json:"status"` // PENDING_UPLOAD, UPLOADED
	IsHiResAvailable bool        `json:"is_hi_res_available"`

	Metadata      *ImageMetadata `json:"metadata,omitempty"`
	HiResMetadata *ImageMetadata `json:"hi_res_metadata,omitempty"`

	LastModifiedAt time.Time `json:"last_modified_at"`
}

// IsProfile reports whether the asset is the owner's distinguished profile asset.
func (a *Asset) IsProfile() bool {
	return a.ID == a.OwnerID
}
