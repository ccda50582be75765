package sofa

import "context"

// ScoreRepository persists the hourly score table.
type ScoreRepository interface {
	// ReplaceAll swaps the entire output table for the given rows in one
	// transaction: the previous pass vanishes in the same commit the new
	// rows land in, so readers never see a half-written pass.
	ReplaceAll(ctx context.Context, rows []ScoreRow) error
}
