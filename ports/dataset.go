package ports

import (
	"context"

	"nsfgstats/domain/dataset"
)

// DatasetLoader loads a tabular dataset into a Frame
type DatasetLoader interface {
	// Load reads and cleans the dataset.
	Load(ctx context.Context) (*dataset.Frame, error)
	// Source describes where the data comes from, for logs and reports.
	Source() string
}
