package main

import "github.com/u759/AllanAI-sub001/cmd"

func main() {
	cmd.Execute()
}
