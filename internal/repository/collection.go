package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/apperror"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/model"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/prometheus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertResult is the acknowledgment returned for a single insert
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult is the acknowledgment returned for an update by id. A
// well-formed id that matches nothing yields MatchedCount 0, not an error.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// Page is one page of a collection plus the unfiltered total
type Page[T model.Record] struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
	Items      []T
}

// Collection gives CRUD and paginated access to one entity's documents
type Collection[T model.Record] struct {
	entity model.Entity
	coll   *mongo.Collection
}

// NewCollection binds an entity to its collection in db
func NewCollection[T model.Record](db *mongo.Database, entity model.Entity) *Collection[T] {
	return &Collection[T]{
		entity: entity,
		coll:   db.Collection(entity.Collection),
	}
}

// Entity returns the entity this collection serves
func (c *Collection[T]) Entity() model.Entity {
	return c.entity
}

// Create inserts one record and returns the generated identifier
func (c *Collection[T]) Create(ctx context.Context, record T) (*InsertResult, error) {
	if record.Identifier() != "" {
		c.record("create", errIdentifierSupplied)
		return nil, apperror.InvalidInput("Identifier is assigned by the server", errIdentifierSupplied)
	}

	defer prometheus.TrackDBOperation(c.entity.Collection, "insert_one")(time.Now())

	res, err := c.coll.InsertOne(ctx, record)
	if err != nil {
		if c.entity.UniqueField != "" && mongo.IsDuplicateKeyError(err) {
			err = apperror.DuplicateKey(c.duplicateMessage(), err)
		} else {
			err = apperror.StorageUnavailable(fmt.Sprintf("Failed to create %s", c.singular()), err)
		}
		c.record("create", err)
		return nil, err
	}

	c.record("create", nil)
	return &InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

// BulkImport performs an unordered insert of records. A failing record does
// not stop the others; the number of inserted records is returned.
func (c *Collection[T]) BulkImport(ctx context.Context, records []T) (int, error) {
	if len(records) == 0 {
		err := apperror.InvalidInput(fmt.Sprintf("Expected an array of %s", c.entity.Collection), nil)
		c.record("bulk_import", err)
		return 0, err
	}

	docs := make([]interface{}, len(records))
	for i, r := range records {
		if r.Identifier() != "" {
			err := apperror.InvalidInput("Identifier is assigned by the server", errIdentifierSupplied)
			c.record("bulk_import", err)
			return 0, err
		}
		docs[i] = r
	}

	defer prometheus.TrackDBOperation(c.entity.Collection, "insert_many")(time.Now())

	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		c.record("bulk_import", nil)
		prometheus.RecordBulkImport(c.singular(), len(res.InsertedIDs), 0)
		return len(res.InsertedIDs), nil
	}

	if rejected, ok := rejectedWrites(err); ok {
		inserted := len(records) - rejected
		c.record("bulk_import", nil)
		prometheus.RecordBulkImport(c.singular(), inserted, rejected)
		return inserted, nil
	}

	err = apperror.StorageUnavailable(fmt.Sprintf("Failed to import %s", c.entity.Collection), err)
	c.record("bulk_import", err)
	return 0, err
}

// ListPage returns the requested page in natural storage order together with
// the total number of documents in the collection
func (c *Collection[T]) ListPage(ctx context.Context, req PageRequest) (*Page[T], error) {
	defer prometheus.TrackDBOperation(c.entity.Collection, "find_page")(time.Now())

	total, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		err = apperror.StorageUnavailable(fmt.Sprintf("Failed to fetch %s", c.entity.Collection), err)
		c.record("list_page", err)
		return nil, err
	}

	opts := options.Find().SetSkip(req.Skip()).SetLimit(int64(req.Limit))
	items, err := c.find(ctx, opts)
	if err != nil {
		c.record("list_page", err)
		return nil, err
	}

	c.record("list_page", nil)
	return &Page[T]{
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
		Items:      items,
	}, nil
}

// ListAll returns every document of the collection
func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	defer prometheus.TrackDBOperation(c.entity.Collection, "find_all")(time.Now())

	items, err := c.find(ctx, options.Find())
	c.record("list_all", err)
	return items, err
}

// Update replaces every recognized field of the record with the given id.
// Fields missing from record are written as empty values.
func (c *Collection[T]) Update(ctx context.Context, id string, record T) (*UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		err = apperror.InvalidInput(fmt.Sprintf("Invalid %s id", c.singular()), err)
		c.record("update", err)
		return nil, err
	}
	if bodyID := record.Identifier(); bodyID != "" && bodyID != oid.Hex() {
		err = apperror.InvalidInput("Identifier in body does not match the path", errIdentifierSupplied)
		c.record("update", err)
		return nil, err
	}

	defer prometheus.TrackDBOperation(c.entity.Collection, "update_one")(time.Now())

	res, err := c.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: record.UpdateSet()}},
	)
	if err != nil {
		if c.entity.UniqueField != "" && mongo.IsDuplicateKeyError(err) {
			err = apperror.DuplicateKey(c.duplicateMessage(), err)
		} else {
			err = apperror.StorageUnavailable(fmt.Sprintf("Failed to update %s", c.singular()), err)
		}
		c.record("update", err)
		return nil, err
	}

	c.record("update", nil)
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// EnsureIndexes creates the unique index backing the entity's uniqueness
// constraint. Entities without a unique field are left untouched.
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	if c.entity.UniqueField == "" {
		return nil
	}

	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: c.entity.UniqueField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(c.entity.UniqueField + "_unique"),
	})
	if err != nil {
		return fmt.Errorf("create unique index on %s.%s: %w", c.entity.Collection, c.entity.UniqueField, err)
	}
	return nil
}

func (c *Collection[T]) find(ctx context.Context, opts *options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Sprintf("Failed to fetch %s", c.entity.Collection), err)
	}

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperror.StorageUnavailable(fmt.Sprintf("Failed to fetch %s", c.entity.Collection), err)
	}
	return items, nil
}

func (c *Collection[T]) duplicateMessage() string {
	return fmt.Sprintf("%s with this %s already exists", c.entity.Name, strings.ReplaceAll(c.entity.UniqueField, "_", " "))
}

func (c *Collection[T]) singular() string {
	return strings.ToLower(c.entity.Name)
}

func (c *Collection[T]) record(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrInvalidInput):
		outcome = "invalid_input"
	case errors.Is(err, apperror.ErrDuplicateKey):
		outcome = "duplicate_key"
	default:
		outcome = "storage_error"
	}
	prometheus.RecordEntityOperation(c.singular(), operation, outcome)
}

var errIdentifierSupplied = errors.New("_id must not be supplied")

// rejectedWrites reports how many documents an unordered bulk insert
// rejected. Only per-document write errors qualify; write concern and
// transport failures leave the outcome unknown.
func rejectedWrites(err error) (int, bool) {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0, false
	}
	if bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return 0, false
	}
	return len(bwe.WriteErrors), true
}

func idString(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
