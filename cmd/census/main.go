// main is the entry point for the census CLI.
package main

import (
	"github.com/Steve-the-map-Maker/census-ai-backend/cmd"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

func main() {
	err := cmd.Execute()
	cmd.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
