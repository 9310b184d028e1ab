package main

import "github.com/aalvaropc/ordercompat/internal/cli"

func main() {
	cli.Execute()
}
