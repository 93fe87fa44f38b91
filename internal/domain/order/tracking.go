package order

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

const trackingPrefix = "MP"

// SnowflakeTracking issues time-ordered tracking numbers unique per node.
type SnowflakeTracking struct {
	node *snowflake.Node
}

func NewSnowflakeTracking(nodeID int64) (*SnowflakeTracking, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &SnowflakeTracking{node: node}, nil
}

func (t *SnowflakeTracking) Next() string {
	return trackingPrefix + strings.ToUpper(t.node.Generate().Base36())
}
