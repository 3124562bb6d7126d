// Package dataset loads Statcast season files and caches month shards.
package dataset

// defaultMaxShards bounds the cache at two full seasons of months.
const defaultMaxShards = 24

// Option applies a configuration option to the ShardCache.
type Option func(*ShardCache)

// WithMaxShards sets the maximum number of cached month shards.
// maxShards <= 0 disables the bound.
func WithMaxShards(maxShards int) Option {
	return func(c *ShardCache) {
		c.maxShards = maxShards
	}
}
