package main

import "github.com/naka-gawa/github-tags/cmd"

func main() {
	cmd.Execute()
}
