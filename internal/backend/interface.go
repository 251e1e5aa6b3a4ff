// Package backend wires the record store and sync publisher for a data backend.
package backend

import (
	"context"

	"successpath/internal/services"
	"successpath/internal/worker"
)

// Store is everything the API and the worker need from persistence.
type Store interface {
	services.Store
	worker.Store
	Ping(ctx context.Context) error
	Close() error
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult holds the wired backend. Publisher is nil when sync events are
// disabled.
type BackendResult struct {
	Store     Store
	Publisher services.Publisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string

	// AMQP is optional and only used with the sqlite backend.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
