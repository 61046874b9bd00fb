package main

import "serverprobe/cmd"

func main() {
	cmd.Execute()
}
