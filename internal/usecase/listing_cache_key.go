package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"jobboard/internal/domain/job"
)

const (
	listCachePrefix  = "jobs:list:"
	listCachePattern = listCachePrefix + "*"
)

type listCacheKeyInput struct {
	Type   string `json:"type"`
	State  string `json:"state"`
	Search string `json:"search"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ListCacheKey derives a stable key for a normalized public-listing filter.
// Search matching is case-insensitive, so the key is too.
func ListCacheKey(f job.Filter) string {
	f = f.Normalize()
	b, _ := json.Marshal(listCacheKeyInput{
		Type:   string(f.Type),
		State:  string(f.State),
		Search: strings.ToLower(f.Search),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	sum := sha256.Sum256(b)
	return listCachePrefix + hex.EncodeToString(sum[:])
}
