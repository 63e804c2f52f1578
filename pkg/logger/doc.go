// Package logger builds *slog.Logger values from functional options and adds
// attributes pulled from context.Context to every record.
//
// New picks a text or JSON handler and wraps it in a ContextHandler, which runs
// the registered ContextExtractor callbacks per record. Environment presets
// (WithDevelopment, WithStaging, WithProduction or WithEnvironment by name)
// set level, format and the service/env attributes in one call.
//
// attr.go holds constructors for the attribute names used across the module,
// such as Driver, StorageKey, Keys and Path, so log lines stay greppable.
// Error returns an empty attribute for a nil error:
//
//	log.Info("container synced", logger.Error(err))
//
// Usage:
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "hybridshare"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.DebugContext(ctx, "container synced",
//	    logger.Driver("session"),
//	    logger.Keys([]string{"flash"}),
//	)
package logger
