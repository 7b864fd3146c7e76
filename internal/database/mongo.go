package database

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Mongo mirrors MySQL for the document backend.
type Mongo struct {
	uri, name string

	mu     sync.Mutex
	client *mongo.Client
}

func NewMongo(uri, name string) *Mongo { return &Mongo{uri: uri, name: name} }

// Acquire connects on first use and returns the configured database.
func (m *Mongo) Acquire(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return m.client.Database(m.name), nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	m.client = client
	return client.Database(m.name), nil
}

func (m *Mongo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
