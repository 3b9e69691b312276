package main

import "github.com/abdul-hamid-achik/xhrmock/apps/cli/cmd"

// Set by the release build with -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
