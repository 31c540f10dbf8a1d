package redis

import (
	"fmt"

	"github.com/mcoot/banker/internal/model"
)

// defaultKeyPrefix is used when the config leaves KeyPrefix empty
const defaultKeyPrefix = "banker"

// keyspace generates the Redis keys for one prefix
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return keyspace{prefix: prefix}
}

// player returns the Redis key for a Player
func (k keyspace) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

// playerIndex returns the Redis key for the ZSET of player IDs scored by creation time
func (k keyspace) playerIndex() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// transactions returns the Redis key for the transaction LIST, newest at the head
func (k keyspace) transactions() string {
	return fmt.Sprintf("%s:transactions", k.prefix)
}

// activeCurrency returns the Redis key for the active currency setting
func (k keyspace) activeCurrency() string {
	return fmt.Sprintf("%s:settings:currency", k.prefix)
}

// pattern matches every key in the keyspace
func (k keyspace) pattern() string {
	return k.prefix + ":*"
}
