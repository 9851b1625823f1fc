// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mgo is a thin fluent layer over the mongo driver. C binds a collection per
// call chain, so one wrapper value is safe to share across goroutines.
type Mgo struct {
	DB *mongo.Database
}

func (w *Mgo) Database(db *mongo.Database) {
	w.DB = db
}

func (w *Mgo) C(name string) *MgoCollection {
	return &MgoCollection{col: w.DB.Collection(name)}
}

func (w *Mgo) DropDatabase(ctx context.Context) error {
	return w.DB.Drop(ctx)
}

type MgoCollection struct {
	col *mongo.Collection
}

func (c *MgoCollection) EnsureIndex(model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = c.col.Indexes().CreateOne(context.Background(), model[0], opts)
	} else if len(model) > 1 {
		_, err = c.col.Indexes().CreateMany(context.Background(), model, opts)
	}
	return err
}

func (c *MgoCollection) Insert(ctx context.Context, document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return c.col.InsertOne(ctx, document, opts...)
}

func (c *MgoCollection) Update(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.col.UpdateOne(ctx, filter, update, opts...)
}

func (c *MgoCollection) Upsert(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	opts = append(opts, options.Update().SetUpsert(true))
	return c.col.UpdateOne(ctx, filter, bson.M{"$set": update}, opts...)
}

func (c *MgoCollection) Remove(ctx context.Context, filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.col.DeleteOne(ctx, filter, opts...)
}

func (c *MgoCollection) RemoveAll(ctx context.Context, filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.col.DeleteMany(ctx, filter, opts...)
}

func (c *MgoCollection) Find(ctx context.Context, filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return c.col.Find(ctx, filter, opts...)
}

func (c *MgoCollection) FindOne(ctx context.Context, filter interface{},
	opts ...*options.FindOneOptions) *mongo.SingleResult {
	return c.col.FindOne(ctx, filter, opts...)
}

func (c *MgoCollection) Count(ctx context.Context, filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return c.col.CountDocuments(ctx, filter, opts...)
}

func (c *MgoCollection) BulkUpsert(ctx context.Context, models []mongo.WriteModel,
	opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	opts = append(opts, options.BulkWrite().SetOrdered(false))
	return c.col.BulkWrite(ctx, models, opts...)
}
