package main

import "github.com/StinkyLord/cmakegen/cmd"

func main() {
	cmd.Execute()
}
