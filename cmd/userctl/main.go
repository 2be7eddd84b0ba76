package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"go-gin-user-console/internal/cli"
)

func main() { os.Exit(cli.Execute()) }
