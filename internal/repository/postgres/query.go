package postgres

import (
	"github.com/deskhive/deskhive/internal/types"
)

// limitArg converts a filter's limit into a LIMIT bind value. Unlimited
// filters bind NULL, which Postgres treats as no limit; a negative value
// would be rejected.
func limitArg(filter types.BaseFilter) interface{} {
	if limit := filter.GetLimit(); limit > 0 {
		return limit
	}
	return nil
}
