// main is the entry point of the psymap CLI.
package main

import (
	"github.com/psymap/psymap/cmd"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
