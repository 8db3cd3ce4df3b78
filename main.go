package main

import (
	"github.com/htools/sitecheck/cmd"
)

func main() {
	cmd.Execute()
}
