package linkio

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// lowFileDescriptorLimit is the threshold below which we warn: opening a
// live capture plus per-scan sockets can exhaust a low NOFILE limit on
// hosts running many concurrent scans.
const lowFileDescriptorLimit = 256

// warnIfFileDescriptorLimitLow logs a warning if the process's open-file
// limit looks too low for sustained packet capture.
func warnIfFileDescriptorLimitLow(logger *slog.Logger) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		logger.Debug("linkio: could not read NOFILE rlimit", "error", err)
		return
	}
	if rlimit.Cur < lowFileDescriptorLimit {
		logger.Warn("linkio: low open-file descriptor limit for sustained capture",
			"current", rlimit.Cur, "recommended_min", lowFileDescriptorLimit)
	}
}
