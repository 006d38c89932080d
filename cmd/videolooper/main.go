package main

import "github.com/sebastiangraz/videolooper/internal/cli"

func main() {
	cli.Main()
}
