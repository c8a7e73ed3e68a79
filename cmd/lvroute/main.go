package main

import "github.com/katalvlaran/lvroute/cmd/lvroute/cmd"

func main() {
	cmd.Execute()
}
