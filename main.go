package main

import "github.com/frahmantamala/company-directory/cmd"

func main() {
	cmd.Execute()
}
