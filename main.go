package main

import "github.com/frahmantamala/hr-portal/cmd"

func main() {
	cmd.Execute()
}
