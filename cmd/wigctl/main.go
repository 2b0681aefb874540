package main

import "github.com/ashendes/wigshop/internal/cmd"

func main() {
	cmd.Execute()
}
