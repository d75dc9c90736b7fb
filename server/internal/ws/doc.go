// Package ws implements the WebSocket hub for dlc-server.
//
// Hub manages a set of connected clients and pushes the match board to all of
// them: once on connect, every interval, and straight after Notify.
//
// Message format sent to clients:
//
//	{
//	  "event": "board",
//	  "data":  { "generated_at": "...", "matches": [ /* GET /api/v1/matches */ ] }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stream by the server.
package ws
