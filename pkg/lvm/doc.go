/*
Package lvm wraps the LVM userspace tools behind a small service interface.

The provisioning code consumes the Service interface; the CLI implementation
shells out to lvs, vgs, vgcreate, lvcreate and lvchange through a runner.
Lookup returns a tagged three-state result (found / no such volume / not
volume syntax) so callers can branch on classification rather than error
types when deciding whether an argument names a logical volume or a raw
device.

Tags are the durable record of how a volume participates in an OSD: SetTags
flushes a whole key/value map in one lvchange invocation.
*/
package lvm
