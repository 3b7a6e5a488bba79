package redis

// Key prefix for all persisted data
const keyPrefix = "chessy"

// Each collection lives in a single hash: field = entity id, value = JSON
// record. The legacy encoding stored the whole collection as a JSON array
// in a plain string under the same key, which is why a TYPE check can
// distinguish the two.

// playersKey returns the Redis key for the players collection hash
func playersKey() string {
	return keyPrefix + ":players"
}

// gamesKey returns the Redis key for the games collection hash
func gamesKey() string {
	return keyPrefix + ":games"
}
