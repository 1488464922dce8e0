package entity

import (
	"fmt"
	"regexp"
)

// Раскладка ключей в бакете: owner/{ownerId}/{prefix}/{assetId}.
// Три префикса делят бакет на "ещё не обработано", "базовое разрешение"
// и "высокое разрешение" для одного и того же ассета.
const (
	ownerSegment = "owner"

	RawPrefix   = "raw"
	BasePrefix  = "base"
	HiResPrefix = "hiRes"
)

var rawKeyPattern = regexp.MustCompile(`^/?` + ownerSegment + `/([^/]+)/` + RawPrefix + `/([^/]+)$`)

func RawKey(ownerID, assetID string) string {
	return objectKey(ownerID, RawPrefix, assetID)
}

func BaseKey(ownerID, assetID string) string {
	return objectKey(ownerID, BasePrefix, assetID)
}

func HiResKey(ownerID, assetID string) string {
	return objectKey(ownerID, HiResPrefix, assetID)
}

func objectKey(ownerID, prefix, assetID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", ownerSegment, ownerID, prefix, assetID)
}

// ParseRawKey extracts (ownerID, assetID) from a raw-prefixed object key.
// Keys under base/hiRes prefixes do not match.
func ParseRawKey(key string) (ownerID, assetID string, ok bool) {
	m := rawKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}

	return m[1], m[2], true
}
