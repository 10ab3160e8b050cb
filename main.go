package main

import "github.com/KaramelBytes/vgdash/cmd"

func main() {
	cmd.Execute()
}
