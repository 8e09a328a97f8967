package lumen

import (
	"github.com/google/uuid"
)

// AssetId identifies a generated asset (e.g. one L-system's geometry) for
// logging and caller-side bookkeeping.
type AssetId string

func NewAssetId() AssetId {
	return AssetId(uuid.NewString())
}
