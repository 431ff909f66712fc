package main

import "github.com/atikulmunna/weft/internal/cmd"

func main() {
	cmd.Execute()
}
