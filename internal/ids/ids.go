// Package ids generates client-side record identifiers of the form
// "{prefix}-{n}". The numeric part is a snowflake id, so identifiers are
// unique per node even when two records are created in the same millisecond.
package ids

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const (
	ProductPrefix  = "p"
	OrderPrefix    = "ord"
	CustomerPrefix = "c"
)

type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Next(prefix string) string {
	return prefix + "-" + g.node.Generate().String()
}

func (g *Generator) Product() string  { return g.Next(ProductPrefix) }
func (g *Generator) Order() string    { return g.Next(OrderPrefix) }
func (g *Generator) Customer() string { return g.Next(CustomerPrefix) }
