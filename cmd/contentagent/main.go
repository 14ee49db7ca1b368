package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "contentagent"}

	root.AddCommand(serveCMD(), generateCMD())
	_ = root.Execute()
}
