package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// info command flags
var (
	infoFormat string
)

// imageInfo is the summary printed by the info command.
type imageInfo struct {
	Label             string `json:"label" yaml:"label"`
	BytesPerSector    uint16 `json:"bytesPerSector" yaml:"bytesPerSector"`
	SectorsPerCluster uint8  `json:"sectorsPerCluster" yaml:"sectorsPerCluster"`
	ClusterSize       int64  `json:"clusterSize" yaml:"clusterSize"`
	ReservedSectors   uint16 `json:"reservedSectors" yaml:"reservedSectors"`
	NumFATs           uint8  `json:"numFATs" yaml:"numFATs"`
	SectorsPerFAT     uint16 `json:"sectorsPerFAT" yaml:"sectorsPerFAT"`
	RootEntries       uint16 `json:"rootEntries" yaml:"rootEntries"`
	TotalSectors      uint32 `json:"totalSectors" yaml:"totalSectors"`
	TotalClusters     uint32 `json:"totalClusters" yaml:"totalClusters"`
	FATStart          int64  `json:"fatStart" yaml:"fatStart"`
	RootDirStart      int64  `json:"rootDirStart" yaml:"rootDirStart"`
	DataStart         int64  `json:"dataStart" yaml:"dataStart"`
}

// createInfoCommand creates the info subcommand
func createInfoCommand() *cobra.Command {
	infoCmd := &cobra.Command{
		Use:   "info [flags] IMAGE_FILE",
		Short: "prints the volume label and geometry of an image",
		Args:  cobra.ExactArgs(1),
		RunE:  executeInfo,
	}

	infoCmd.Flags().StringVar(&infoFormat, "format", "",
		"Specify the output format (text, json, yaml), defaults to the configured format")

	return infoCmd
}

func executeInfo(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(infoFormat)
	if err != nil {
		return err
	}

	fs, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer fs.Close()

	g := fs.Geometry()
	info := imageInfo{
		Label:             fs.Label(),
		BytesPerSector:    g.BytesPerSector,
		SectorsPerCluster: g.SectorsPerCluster,
		ClusterSize:       g.ClusterSize(),
		ReservedSectors:   g.ReservedSectors,
		NumFATs:           g.NumFATs,
		SectorsPerFAT:     g.SectorsPerFAT,
		RootEntries:       g.RootEntries,
		TotalSectors:      g.TotalSectors,
		TotalClusters:     g.TotalClusters(),
		FATStart:          g.FATStart,
		RootDirStart:      g.RootDirStart,
		DataStart:         g.DataStart,
	}

	return writeResult(cmd.OutOrStdout(), format, true, info, func(w io.Writer) error {
		_, _ = fmt.Fprintf(w, "Volume label:        %s\n", info.Label)
		_, _ = fmt.Fprintf(w, "Bytes per sector:    %d\n", info.BytesPerSector)
		_, _ = fmt.Fprintf(w, "Sectors per cluster: %d (%d bytes)\n", info.SectorsPerCluster, info.ClusterSize)
		_, _ = fmt.Fprintf(w, "Reserved sectors:    %d\n", info.ReservedSectors)
		_, _ = fmt.Fprintf(w, "FATs:                %d x %d sectors at %d\n", info.NumFATs, info.SectorsPerFAT, info.FATStart)
		_, _ = fmt.Fprintf(w, "Root entries:        %d at %d\n", info.RootEntries, info.RootDirStart)
		_, _ = fmt.Fprintf(w, "Data region:         %d clusters at %d\n", info.TotalClusters, info.DataStart)
		_, _ = fmt.Fprintf(w, "Total sectors:       %d\n", info.TotalSectors)
		return nil
	})
}
