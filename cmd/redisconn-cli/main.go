package main

import (
	"os"

	"redisconn/internal/cliapp"
)

func main() {
	code := cliapp.Execute(os.Args[1:])
	os.Exit(code)
}
