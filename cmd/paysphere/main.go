package main

import "github.com/ahesenov7-ai/paysphate.demo/internal/cli"

func main() {
	cli.Execute()
}
