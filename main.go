package main

import "vonatinfo/cmd"

func main() {
	cmd.Execute()
}
