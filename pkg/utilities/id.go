package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewRecordID generates a prefixed, K-sortable record ID for clinical
// records, e.g. "p..." for patients or "inv..." for investigations.
func NewRecordID(prefix string) string {
	return prefix + ksuid.New().String()
}

// NewInvoiceNumber generates a numeric invoice number from a snowflake node.
// The node ID comes from SNOWFLAKE_NODE; node 1 is used when unset or
// unparseable so a number is always produced.
func NewInvoiceNumber() string {
	nodeID := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		// snowflake rejects out-of-range node IDs; fall back to a KSUID so
		// invoice creation never fails on number generation
		return ksuid.New().String()
	}
	return node.Generate().String()
}
