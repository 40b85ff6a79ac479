package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osdkit/osdprep/pkg/conf"
	"github.com/osdkit/osdprep/pkg/disk"
	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/lvm"
	"github.com/osdkit/osdprep/pkg/prepare"
	"github.com/osdkit/osdprep/pkg/runner"
	"github.com/osdkit/osdprep/pkg/types"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "osdprep",
	Short: "osdprep - LVM-based OSD provisioning",
	Long: `osdprep provisions storage daemons (OSDs) on top of LVM: it assigns
an ID and FSID, registers them with the cluster, arranges the given
devices into their roles, records that assignment as LVM tags, and
drives the on-disk initialization so the OSD can later be activated.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"osdprep version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(prepareCmd)
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Format an LVM device and associate it with an OSD",
	Long: `Prepare an OSD by assigning an ID and FSID, registering them with the
cluster, formatting and mounting the volume, and finally adding all the
metadata to the logical volumes using LVM tags, so that it can later be
discovered and activated.

Example calls for supported scenarios:

Filestore
---------

  Existing logical volume (lv), journal on a device or another lv:

      osdprep prepare --filestore --data vg/lv --journal /dev/sdb1
      osdprep prepare --filestore --data vg/lv --journal vg/journal-lv

Bluestore
---------

  Existing logical volume (lv):

      osdprep prepare --bluestore --data vg/lv

  Existing block device, that will be made a group and logical volume:

      osdprep prepare --bluestore --data /dev/sdb

  Optionally consuming wal and db devices or logical volumes:

      osdprep prepare --bluestore --data vg/lv --block-wal /dev/sdc1 --block-db vg/db-lv

A failed prepare can be retried without registering a duplicate OSD by
passing the id and fsid of the failed attempt:

      osdprep prepare --bluestore --data /dev/sdb --osd-id 3 --osd-fsid <uuid>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filestore, _ := cmd.Flags().GetBool("filestore")
		bluestore, _ := cmd.Flags().GetBool("bluestore")
		data, _ := cmd.Flags().GetString("data")
		journal, _ := cmd.Flags().GetString("journal")
		blockWAL, _ := cmd.Flags().GetString("block-wal")
		blockDB, _ := cmd.Flags().GetString("block-db")
		osdID, _ := cmd.Flags().GetString("osd-id")
		osdFSID, _ := cmd.Flags().GetString("osd-fsid")
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")

		log.Init(log.Config{Level: log.Level(logLevel)})

		if filestore && bluestore {
			return fmt.Errorf("--filestore and --bluestore are mutually exclusive")
		}
		var backend types.Backend
		switch {
		case filestore:
			backend = types.BackendFilestore
		case bluestore:
			backend = types.BackendBluestore
		}

		cfg, err := conf.Load(configPath)
		if err != nil {
			return err
		}

		run := runner.NewExecRunner()
		p := prepare.New(
			lvm.NewCLI(run),
			disk.NewCLI(run),
			prepare.NewExecPrimitives(run, cfg),
			prepare.NewClusterRegistrar(run, cfg),
		)

		return p.Run(context.Background(), prepare.Options{
			Backend:     backend,
			Data:        data,
			Journal:     journal,
			BlockWAL:    blockWAL,
			BlockDB:     blockDB,
			Resume:      types.ResumeToken{OSDID: osdID, OSDFSID: osdFSID},
			ClusterFSID: cfg.FSID,
		})
	},
}

func init() {
	prepareCmd.Flags().Bool("filestore", false, "Use the filestore backend (requires --journal)")
	prepareCmd.Flags().Bool("bluestore", false, "Use the bluestore backend")
	prepareCmd.Flags().String("data", "", "vg/lv reference, or for bluestore a raw partition or device")
	prepareCmd.Flags().String("journal", "", "Journal device or vg/lv reference (filestore only)")
	prepareCmd.Flags().String("block-wal", "", "Optional wal device or vg/lv reference (bluestore only)")
	prepareCmd.Flags().String("block-db", "", "Optional db device or vg/lv reference (bluestore only)")
	prepareCmd.Flags().String("osd-id", "", "Reuse the OSD id of a previous failed prepare")
	prepareCmd.Flags().String("osd-fsid", "", "Reuse the OSD fsid of a previous failed prepare")
	prepareCmd.Flags().String("config", conf.DefaultPath, "Cluster configuration file")
	prepareCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
