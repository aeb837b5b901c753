package client

import (
	"context"
	"time"

	"negociosverdes/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	Mongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB",
			"error", err,
		)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// HasMongo reports whether a snapshot store is configured.
func (c *Client) HasMongo() bool {
	return c != nil && c.Mongo != nil
}

func (c *Client) Close(ctx context.Context, log *logger.Logger) {
	if !c.HasMongo() {
		return
	}
	if err := c.Mongo.Disconnect(ctx); err != nil {
		log.Error("Error disconnecting from MongoDB", "error", err)
		return
	}
	log.Info("Disconnected from MongoDB")
}
