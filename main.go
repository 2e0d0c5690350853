// main is the entry point for the scorecards CLI.
package main

import (
	"github.com/huangsam/scorecards/cmd"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
