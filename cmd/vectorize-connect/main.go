package main

import (
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
