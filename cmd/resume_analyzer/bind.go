package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// mustBind lets a command flag override the config key it names.
func mustBind(cmd *cobra.Command, key, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if flag == nil {
		panic(fmt.Sprintf("flag --%s is not defined on %s", name, cmd.Name()))
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind --%s to %s: %v", name, key, err))
	}
}
