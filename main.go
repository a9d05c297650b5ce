package main

import "github.com/wolfitem/tech-daily/cmd"

func main() {
	cmd.Execute()
}
