package main

import (
	"fmt"

	"github.com/harvestlabs/harvest"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	registry := harvest.DefaultRegistry()
	for _, site := range registry.List() {
		fmt.Fprintln(deps.Stdout, string(site))
	}
	return nil
}
