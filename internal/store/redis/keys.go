package redis

const (
	// KeyPrefixViews is the prefix for per-article view counters.
	KeyPrefixViews = "regiomag:views:"
	// KeyPrefixShares is the prefix for per-article share counters.
	KeyPrefixShares = "regiomag:shares:"
	// KeyDocCache is the key for the cached document body.
	KeyDocCache = "regiomag:cache:doc"
)

// ViewsKey returns the Redis key for an article's view counter.
func ViewsKey(articleID string) string {
	return KeyPrefixViews + articleID
}

// SharesKey returns the Redis key for an article's share counter.
func SharesKey(articleID string) string {
	return KeyPrefixShares + articleID
}
