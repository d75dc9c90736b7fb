// Package config loads dlc-server's configuration from the `server:` section
// of a YAML file.
//
// Config fields:
//   - HTTPPort        port for REST, WebSocket and /metrics (default 8080)
//   - GRPCPort        port for the Calculator gRPC service (default 50051)
//   - LogLevel        debug | info | warn | error (default info)
//   - Auth.Mode       "apikey" or "none"
//   - Auth.KeyEnv     environment variable holding the expected API key
//   - Auth.Header     HTTP header / gRPC metadata key (default "x-api-key")
//   - Matches.TTL     idle lifetime of a match in memory (default 6h, 0 keeps forever)
//   - DefaultCategory category used when a request names none (default full-member)
//   - BoardInterval   WebSocket board broadcast period (default 5s)
//   - Webhooks        targets notified when a revised target changes
//
// Load(path) applies defaults before unmarshalling, then validates. Watch
// reloads the file on change; log level, default category and webhooks take
// effect without a restart.
package config
