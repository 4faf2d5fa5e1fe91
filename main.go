package main

import "github.com/VoxDroid/hotcmd/cmd"

func main() {
	cmd.Execute()
}
