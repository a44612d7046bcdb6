package main

import "github.com/gerunddev/docbridge/cmd/docbridge/cmd"

func main() {
	cmd.Execute()
}
