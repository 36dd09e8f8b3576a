package export

import (
	"context"

	"kasku/internal/core"
)

// Ports for outbound backup adapters.
type (
	// TransactionWriter appends one transaction to the backup target
	// and returns a reference to the written row.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
