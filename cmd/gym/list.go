package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available environments",
	Long:  `Shows every registered environment with its action space.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	envs := registry.List()

	if len(envs) == 0 {
		fmt.Println("No environments available.")
		return
	}

	fmt.Println("Available environments:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, e := range envs {
		maxIDLen = max(maxIDLen, len(e.ID))
	}

	fmt.Printf("  %-*s  %-18s  %-8s  %s\n", maxIDLen, "ID", "Title", "Playable", "Actions")
	fmt.Printf("  %-*s  %-18s  %-8s  %s\n", maxIDLen, "--", "-----", "--------", "-------")

	for _, e := range envs {
		names := make([]string, len(e.Actions))
		for i, a := range e.Actions {
			names[i] = a.String()
		}
		playable := "no"
		if e.Playable {
			playable = "yes"
		}
		fmt.Printf("  %-*s  %-18s  %-8s  %s\n", maxIDLen, e.ID, e.Title, playable, strings.Join(names, ", "))
	}

	fmt.Println()
	fmt.Println("Run 'gym train <id>' to train an agent or 'gym play <id>' to play.")
}
