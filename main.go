package main

import "github.com/techagentng/oceanwatch/cmd"

func main() {
	cmd.Execute()
}
