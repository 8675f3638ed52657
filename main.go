package main

import "github.com/frahmantamala/feedback-collector/cmd"

func main() {
	cmd.Execute()
}
