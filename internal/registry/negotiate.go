package registry

import (
	"context"
	"strconv"
)

// NegotiateEpoch implements run_gart_reader.cc's startup-time epoch
// negotiation (spec.md §6, ported per SPEC_FULL.md §C): read each
// partition's gart_latest_epoch key, take the minimum across all
// partitions, and return it as the epoch a new reader should open its
// view at. A partition with no published epoch yet is treated as epoch 0.
func NegotiateEpoch(ctx context.Context, c Client, metaPrefix string, numPartitions int) (uint64, error) {
	var min uint64
	haveMin := false

	for p := 0; p < numPartitions; p++ {
		raw, ok, err := c.Get(ctx, LatestEpochKey(metaPrefix, p))
		if err != nil {
			return 0, err
		}
		var epoch uint64
		if ok {
			epoch, err = strconv.ParseUint(string(raw), 10, 64)
			if err != nil {
				return 0, err
			}
		}
		if !haveMin || epoch < min {
			min = epoch
			haveMin = true
		}
	}
	return min, nil
}

// PublishLatestEpoch writes partition's current epoch to the registry as
// a decimal string, per spec.md §6's "string integer" value format.
func PublishLatestEpoch(ctx context.Context, c Client, metaPrefix string, partition int, epoch uint64) error {
	return c.Put(ctx, LatestEpochKey(metaPrefix, partition), []byte(strconv.FormatUint(epoch, 10)))
}
