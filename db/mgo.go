// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	cPortfolios = "Portfolios"
	cTokens     = "Tokens"
	cSummaries  = "Summaries"
)

type mongoDB struct {
	logger  *zap.Logger
	wrapper *Mgo
	db      *mongo.Database
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	ctx := context.Background()
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dbClient := &mongoDB{
		logger:  logger,
		wrapper: &Mgo{},
	}

	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	if cfg.MinConn > 0 {
		mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	}
	if cfg.MaxConn > 0 {
		mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	}
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}
	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}

	dbClient.db = mgoClient.Database(cfg.DbName)
	dbClient.wrapper.Database(dbClient.db)

	if cfg.FlushDB {
		logger.Info("Flushing database before start")
		if err := dbClient.db.Drop(ctx); err != nil {
			return nil, err
		}
	}
	if err := createIndexes(dbClient); err != nil {
		logger.Warn("cannot ensure indexes", zap.Error(err))
	}

	return dbClient, nil
}

func createIndexes(dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		{c: cPortfolios, model: []mongo.IndexModel{{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cTokens, model: []mongo.IndexModel{{Keys: bson.M{"address": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		// Summaries are re-written on every refresh, keyed by wallet+hash;
		// wallet+time serves the dashboard's newest-first reads.
		{c: cSummaries, model: []mongo.IndexModel{{Keys: bson.D{{Key: "wallet", Value: 1}, {Key: "hash", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cSummaries, model: []mongo.IndexModel{{Keys: bson.D{{Key: "wallet", Value: 1}, {Key: "time", Value: -1}}, Options: options.Index().SetSparse(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(cIdx.model); err != nil {
			return err
		}
	}
	return nil
}

func (m *mongoDB) Ping(ctx context.Context) error {
	return m.db.RunCommand(ctx, bson.M{"ping": 1}).Err()
}

func (m *mongoDB) dropDatabase(ctx context.Context) error {
	return m.wrapper.DropDatabase(ctx)
}
