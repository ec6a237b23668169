package main

import "github.com/sfines/sdd-process-example/internal/cli"

func main() {
	cli.Execute()
}
