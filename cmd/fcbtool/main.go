package main

import "github.com/OpenTraceLab/OpenTraceFCB/cmd/fcbtool/cmd"

func main() {
	cmd.Execute()
}
