package main

import "hesiod53/cmd"

func main() {
	cmd.Execute()
}
