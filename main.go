package main

import "github.com/KaramelBytes/finclean-cli/cmd"

func main() {
	cmd.Execute()
}
