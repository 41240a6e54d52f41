// Package launcher starts the JSON-RPC server process.
//
// The install location of the server binary differs between deployments, so
// the launcher walks an ordered list of strategies and uses the first one
// whose process starts:
//
//	l := launcher.New(&launcher.Config{
//	    Strategies: config.DefaultStrategies(),
//	    TokenEnv:   "MONDAY_TOKEN",
//	    TokenFlag:  "-t",
//	    Logger:     slog.Default(),
//	})
//	proc, err := l.Launch(ctx, token)
//
// The token is handed to the child directly, as an argument after TokenFlag
// and as the TokenEnv environment variable. No shell or interpreter is
// involved, and the token is never written to logs or error messages.
package launcher
