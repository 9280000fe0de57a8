// Package logger provides a small factory around log/slog plus attribute
// helpers shared by the notifkit packages.
//
// The factory defaults to JSON output at INFO level; use options to switch
// format, level, output or add static attributes:
//
//	log := logger.New(
//	    logger.WithTextFormatter(),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithService("notifd"),
//	)
//
// The attribute helpers (NotifKey, GroupKey, PluginName, Reason, Error, ...)
// keep attribute keys consistent across packages and tolerate zero values by
// emitting empty attrs.
package logger
