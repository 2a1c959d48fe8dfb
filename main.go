package main

import "github.com/alexiusacademia/gopanel/cmd"

func main() {
	cmd.Execute()
}
