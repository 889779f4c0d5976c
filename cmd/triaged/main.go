package main

import "github.com/spec-kit/triage-service/internal/cli"

func main() {
	cli.Execute()
}
