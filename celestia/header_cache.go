// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/1010adigupta/volition-da/celestia/types"
)

// HeaderCache remembers recently fetched headers. Headers are immutable once
// served, so only lookups that succeed are cached.
type HeaderCache struct {
	cache *lru.Cache[uint64, *types.Header]
	DataAvailabilityService
}

func NewHeaderCache(da DataAvailabilityService, size int) (DataAvailabilityService, error) {
	if size <= 0 {
		return da, nil
	}
	cache, err := lru.New[uint64, *types.Header](size)
	if err != nil {
		return nil, err
	}
	return &HeaderCache{cache: cache, DataAvailabilityService: da}, nil
}

func (c *HeaderCache) HeaderByHeight(ctx context.Context, height uint64) (*types.Header, error) {
	if hdr, ok := c.cache.Get(height); ok {
		return hdr, nil
	}
	hdr, err := c.DataAvailabilityService.HeaderByHeight(ctx, height)
	if err != nil {
		return nil, err
	}
	c.cache.Add(height, hdr)
	return hdr, nil
}

func (c *HeaderCache) String() string {
	return fmt.Sprintf("HeaderCache{%v}", c.DataAvailabilityService)
}
