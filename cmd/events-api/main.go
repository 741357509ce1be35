package main

import "github.com/deppfellow/events-api/cmd/events-api/cmd"

func main() {
	cmd.Execute()
}
