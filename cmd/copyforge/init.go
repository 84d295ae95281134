package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/config"
	"github.com/copyforge/copyforge/internal/home"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the copyforge home directory",
	Long: `Create the copyforge home directory with a default config, the
starter content catalog, and an empty templates directory.

Existing files are left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if initForce || !h.ConfigExists() {
			if err := config.WriteDefault(h.ConfigPath()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", h.ConfigPath())
		} else {
			fmt.Printf("kept existing %s\n", h.ConfigPath())
		}

		if initForce || !h.CatalogExists() {
			if err := os.WriteFile(h.CatalogPath(), catalog.SeedBytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write catalog: %w", err)
			}
			fmt.Printf("wrote %s\n", h.CatalogPath())
		} else {
			fmt.Printf("kept existing %s\n", h.CatalogPath())
		}

		fmt.Printf("home directory ready: %s\n", h.Path())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config and catalog")

	rootCmd.AddCommand(initCmd)
}
