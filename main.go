package main

import "github.com/naka-gawa/github-backup/cmd"

func main() {
	cmd.Execute()
}
