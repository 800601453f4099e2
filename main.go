package main

import "github.com/Tiliavir/trackthetime/cmd"

func main() {
	cmd.Execute()
}
