package main

import "loan-sync/cmd"

func main() {
	cmd.Execute()
}
