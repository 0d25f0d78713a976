package main

import "github.com/Thanhnebe/hoainamprj/cmd/shopctl/cmd"

func main() {
	cmd.Execute()
}
