// Package cmd holds the voxslicer command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voxelsplace/voxslicer/export"
	"github.com/voxelsplace/voxslicer/utils"
)

var (
	configFile string
	logLevel   string
	compName   string
	writeBack  bool

	log = logrus.StandardLogger()
)

// RootCmd is the main command.
var RootCmd = &cobra.Command{
	Use:   "voxslicer",
	Short: "Convert sliced layer images into voxel cuboids.",
	Long: `voxslicer reads an image made of square layers stacked vertically,
classifies every voxel against a palette of named elements and merges
same-element voxels into axis-aligned cuboids.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the sliced image and report the cuboids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.RunImport(cmd.Context(), configFile, log)
	},
}

var glbCmd = &cobra.Command{
	Use:   "glb <output.glb>",
	Short: "Import the sliced image and write one box per cuboid to a GLB file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.RunSliced2GLB(cmd.Context(), configFile, args[0], log)
	},
}

var packCmd = &cobra.Command{
	Use:   "pack <output.vbox>",
	Short: "Import the sliced image and write a cuboid pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := export.ParsePackCompression(compName)
		if err != nil {
			return err
		}
		return utils.RunSliced2Pack(cmd.Context(), configFile, args[0], comp, log)
	},
}

var pack2glbCmd = &cobra.Command{
	Use:   "pack2glb <input.vbox> <output.glb>",
	Short: "Convert a cuboid pack to a GLB file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.RunPack2GLB(args[0], args[1])
	},
}

var forgottenCmd = &cobra.Command{
	Use:   "forgotten",
	Short: "List source colors that no palette element matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.RunForgotten(configFile, writeBack)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "./importer.yaml", "importer file (.yaml, .yml or .toml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	packCmd.Flags().StringVar(&compName, "comp", "zstd", "pack compression (none, zlib, zstd)")
	forgottenCmd.Flags().BoolVar(&writeBack, "write", false, "store the forgotten colors in the importer file")

	RootCmd.AddCommand(importCmd, glbCmd, packCmd, pack2glbCmd, forgottenCmd)
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("voxslicer: %w", err)
	}
	return nil
}
