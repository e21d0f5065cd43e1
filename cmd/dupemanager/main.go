package main

import (
	"github.com/amyadams89/dupemanager/internal/cli"
)

func main() {
	cli.Execute()
}
