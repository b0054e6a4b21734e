// Package logging provides structured logging for vizlex.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// persistent attributes. The lexicon, the schema loader and the watcher all
// log through a [Logger] so that a long-running watch process leaves a
// filterable trail of every property registered or rejected.
//
// # Thread Safety
//
// [Logger] is safe for concurrent use. Child loggers created via With*
// methods share the underlying handler.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/vizlex.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	schemaLogger := logger.WithComponent("schema").WithSchema("ext/glow.yaml")
//	schemaLogger.Info("schema applied", "properties", 3)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"schema applied","component":"schema","schema":"ext/glow.yaml","properties":3}
package logging
