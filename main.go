package main

import "github.com/frahmantamala/ontology-client/cmd"

func main() {
	cmd.Execute()
}
