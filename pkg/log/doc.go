/*
Package log provides structured logging for osdprep using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. Console output is the default since osdprep is an
interactive operator tool; JSON output is available for log collection.

Usage:

	log.Init(log.Config{Level: log.InfoLevel})
	logger := log.WithComponent("lvm")
	logger.Info().Str("vg", vgName).Msg("volume group created")

Diagnostics for device resolution are logged at debug level so a normal
prepare run only reports the operational steps.
*/
package log
