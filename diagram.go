package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mdeck-tools/routing/router"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 从本地JSON文件或mongo集合加载图数据
func LoadDiagram(ctx context.Context, mongoURI string, path *Path) (*router.Diagram, error) {
	if path == nil {
		return nil, errors.New("no diagram source")
	}

	if path.File != "" {
		data, err := os.ReadFile(path.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read diagram from %s: %w", path.File, err)
		}
		diagram := &router.Diagram{}
		if err := json.Unmarshal(data, diagram); err != nil {
			return nil, fmt.Errorf("failed to parse diagram from %s: %w", path.File, err)
		}
		return diagram, nil
	}

	if mongoURI == "" {
		return nil, fmt.Errorf("mongo uri is required to load diagram from %s", path)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	diagram := &router.Diagram{}
	err = client.Database(path.GetDb()).Collection(path.GetColl()).
		FindOne(ctx, bson.D{}).Decode(diagram)
	if err != nil {
		return nil, fmt.Errorf("failed to load diagram from %s: %w", path, err)
	}
	return diagram, nil
}
