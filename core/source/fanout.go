package source

import (
	"context"
	"fmt"
)

// EachAPI runs the same operation against a list of endpoint adapters,
// stopping at the first failure. Taking a function value keeps call sites
// free of per-endpoint switches: the doctor's count check and the labs
// candidate search both pass one closure and a list of adapters.
func EachAPI(ctx context.Context, apis []API, op func(ctx context.Context, api API) error) error {
	for _, api := range apis {
		if err := op(ctx, api); err != nil {
			return fmt.Errorf("%s: %w", api.Name(), err)
		}
	}
	return nil
}
