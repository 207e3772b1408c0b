package main

import "area-reconciler/cmd"

func main() {
	cmd.Execute()
}
