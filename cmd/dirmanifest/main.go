// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/dirmanifest/cmd/dirmanifest/cmd"
)

func main() {
	cmd.Execute()
}
