package main

import (
	"os"

	"github.com/armcknight/cache-for-clankers/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
