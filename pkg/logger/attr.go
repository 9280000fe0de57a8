package logger

import "log/slog"

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// NotifKey records a notification key under the key "notif_key".
func NotifKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("notif_key", key)
}

// GroupKey records a notification group key under the key "group_key".
func GroupKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("group_key", key)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// PluginName records a lifetime extender or dismiss interceptor name under
// the key "plugin".
func PluginName(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("plugin", name)
}

// Reason records a cancellation reason under the key "reason".
func Reason(reason string) slog.Attr {
	if reason == "" {
		return slog.Attr{}
	}
	return slog.String("reason", reason)
}
