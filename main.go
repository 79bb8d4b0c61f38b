package main

import "github.com/majormguarde-bit/megre-guard-db/cmd"

func main() {
	cmd.Execute()
}
