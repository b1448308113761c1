package commands

import (
	"context"
	"fmt"
	"time"

	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// AddressResolver geocodes the address fields of a parcel write. Lookups run
// concurrently, each bounded by its own timeout, and are never retried.
type AddressResolver struct {
	geocoder ports.Geocoder
	timeout  time.Duration
}

func NewAddressResolver(geocoder ports.Geocoder, timeout time.Duration) AddressResolver {
	return AddressResolver{geocoder: geocoder, timeout: timeout}
}

type addressLookup struct {
	field  string
	text   string
	result parcel.Address
}

// resolve fills result for every lookup. The first failure cancels the
// others and is returned wrapped in ErrAddressUnresolvable.
func (r AddressResolver) resolve(ctx context.Context, lookups ...*addressLookup) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, l := range lookups {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, r.timeout)
			defer cancel()

			point, err := r.geocoder.Resolve(callCtx, l.text)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrAddressUnresolvable, l.field, err)
			}

			address, err := parcel.NewAddress(l.text, point)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrAddressUnresolvable, l.field, err)
			}

			l.result = address
			return nil
		})
	}

	return g.Wait()
}
