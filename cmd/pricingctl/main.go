// Command pricingctl manages pricing reference data and previews quotes.
package main

import (
	"os"

	"github.com/yungbote/costing-backend/cmd/pricingctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
