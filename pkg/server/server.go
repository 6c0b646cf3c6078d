package server

import (
	"log"
	"time"

	internalserver "github.com/SmitUplenchwar2687/Retrace/internal/server"
	"github.com/SmitUplenchwar2687/Retrace/pkg/clock"
	"github.com/SmitUplenchwar2687/Retrace/pkg/storage"
)

// Server is the Retrace review server.
type Server = internalserver.Server

// Options configures optional server components.
type Options = internalserver.Options

// Session is one review session: a loaded timeline and its player.
type Session = internalserver.Session

// Hub manages WebSocket clients and broadcasts transport state.
type Hub = internalserver.Hub

// Message is a server to client WebSocket message.
type Message = internalserver.Message

// Command is a client to server transport command.
type Command = internalserver.Command

// CommandHandler applies transport commands received over the WebSocket.
type CommandHandler = internalserver.CommandHandler

// Watcher reports timelines written into a file storage directory.
type Watcher = internalserver.Watcher

// DashboardHTML is the embedded review page.
const DashboardHTML = internalserver.DashboardHTML

// New creates a new Retrace server for session.
func New(addr string, session *Session, st storage.Storage, clk clock.Clock, opts Options) *Server {
	return internalserver.New(addr, session, st, clk, opts)
}

// NewSession creates an empty session reading timelines from st.
func NewSession(st storage.Storage, interval time.Duration, logger *log.Logger) *Session {
	return internalserver.NewSession(st, interval, logger)
}

// NewHub creates a WebSocket hub dispatching commands to handler.
func NewHub(handler CommandHandler, logger *log.Logger) *Hub {
	return internalserver.NewHub(handler, logger)
}

// NewWatcher starts watching dir for saved timelines.
func NewWatcher(dir string, logger *log.Logger) (*Watcher, error) {
	return internalserver.NewWatcher(dir, logger)
}
