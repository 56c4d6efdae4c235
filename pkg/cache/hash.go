package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// hashKey builds prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LayoutKey identifies the result of running strategy with cfg over a
// topology. Any change to the config, the node set, positions or edges
// yields a different key.
func LayoutKey(strategy string, cfg layout.Config, nodes []topo.Node, edges []topo.Edge) string {
	return hashKey("layout", strategy, cfg, nodes, edges)
}
