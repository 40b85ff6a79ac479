/*
Package types defines the core data structures shared across osdprep packages.

These are plain records: the OSD identity produced during preparation, the
device roles a volume can play (data/journal for filestore, block/wal/db for
bluestore), and the resume token an operator supplies to retry a failed
prepare without re-registering with the cluster.
*/
package types
