package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/apperror"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/model"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/repository"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Store is the collection access the handlers depend on
type Store[T model.Record] interface {
	Entity() model.Entity
	Create(ctx context.Context, record T) (*repository.InsertResult, error)
	BulkImport(ctx context.Context, records []T) (int, error)
	ListPage(ctx context.Context, req repository.PageRequest) (*repository.Page[T], error)
	ListAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, record T) (*repository.UpdateResult, error)
}

// CollectionHandler serves the five collection endpoints of one entity
type CollectionHandler[T model.Record] struct {
	store  Store[T]
	entity model.Entity
}

// NewCollectionHandler creates a handler for the store's entity
func NewCollectionHandler[T model.Record](store Store[T]) *CollectionHandler[T] {
	return &CollectionHandler[T]{store: store, entity: store.Entity()}
}

// Register mounts the entity routes under /<collection>
func (h *CollectionHandler[T]) Register(e *echo.Echo) {
	g := e.Group("/" + h.entity.Collection)
	g.POST("", h.Create)
	g.POST("/all", h.BulkImport)
	g.GET("/all", h.ListAll)
	g.GET("", h.ListPage)
	g.PATCH("/:id", h.Update)
}

// Create inserts one record
func (h *CollectionHandler[T]) Create(c echo.Context) error {
	log := logger.FromContext(c).With(zap.String("entity", h.entity.Collection))

	var record T
	if err := decodeStrict(c.Request().Body, &record); err != nil {
		return h.fail(c, log, "create", apperror.InvalidInput("Invalid request data", err))
	}

	result, err := h.store.Create(c.Request().Context(), record)
	if err != nil {
		return h.fail(c, log, "create", err)
	}

	log.Info("Record created", zap.String("id", result.InsertedID))
	return c.JSON(http.StatusOK, result)
}

// BulkImport inserts a non-empty JSON array of records, unordered
func (h *CollectionHandler[T]) BulkImport(c echo.Context) error {
	log := logger.FromContext(c).With(zap.String("entity", h.entity.Collection))
	expected := fmt.Sprintf("Expected an array of %s", h.entity.Collection)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.fail(c, log, "bulk_import", apperror.InvalidInput(expected, err))
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		return h.fail(c, log, "bulk_import", apperror.InvalidInput(expected, errors.New("body is not a JSON array")))
	}

	var records []T
	if err := decodeStrict(bytes.NewReader(body), &records); err != nil {
		return h.fail(c, log, "bulk_import", apperror.InvalidInput(expected, err))
	}
	if len(records) == 0 {
		return h.fail(c, log, "bulk_import", apperror.InvalidInput(expected, errors.New("empty array")))
	}

	inserted, err := h.store.BulkImport(c.Request().Context(), records)
	if err != nil {
		return h.fail(c, log, "bulk_import", err)
	}

	log.Info("Bulk import finished",
		zap.Int("submitted", len(records)),
		zap.Int("inserted", inserted))
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"insertedCount": inserted,
	})
}

// ListPage returns one page of records with pagination totals
func (h *CollectionHandler[T]) ListPage(c echo.Context) error {
	log := logger.FromContext(c).With(zap.String("entity", h.entity.Collection))
	req := repository.ParsePageRequest(c.QueryParam("page"), c.QueryParam("limit"))

	page, err := h.store.ListPage(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, log, "list_page", err)
	}

	log.Debug("Page retrieved",
		zap.Int("page", page.Page),
		zap.Int("limit", page.Limit),
		zap.Int64("total", page.Total),
		zap.Int("count", len(page.Items)))
	return c.JSON(http.StatusOK, echo.Map{
		"total":             page.Total,
		"page":              page.Page,
		"limit":             page.Limit,
		"totalPages":        page.TotalPages,
		h.entity.Collection: page.Items,
	})
}

// ListAll returns every record without pagination
func (h *CollectionHandler[T]) ListAll(c echo.Context) error {
	log := logger.FromContext(c).With(zap.String("entity", h.entity.Collection))

	items, err := h.store.ListAll(c.Request().Context())
	if err != nil {
		return h.fail(c, log, "list_all", err)
	}

	log.Debug("All records retrieved", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// Update replaces the full field set of the record identified by :id
func (h *CollectionHandler[T]) Update(c echo.Context) error {
	id := c.Param("id")
	log := logger.FromContext(c).With(
		zap.String("entity", h.entity.Collection),
		zap.String("id", id))

	var record T
	if err := decodeStrict(c.Request().Body, &record); err != nil {
		return h.fail(c, log, "update", apperror.InvalidInput("Invalid request data", err))
	}

	result, err := h.store.Update(c.Request().Context(), id, record)
	if err != nil {
		return h.fail(c, log, "update", err)
	}

	if result.MatchedCount == 0 {
		log.Warn("Update matched no record")
	} else {
		log.Info("Record updated", zap.Int64("modified", result.ModifiedCount))
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CollectionHandler[T]) fail(c echo.Context, log *zap.Logger, operation string, err error) error {
	status := apperror.StatusCode(err)
	message := apperror.Message(err, fmt.Sprintf("Failed to %s %s", strings.ReplaceAll(operation, "_", " "), h.entity.Collection))

	if status >= http.StatusInternalServerError {
		log.Error("Operation failed", zap.String("operation", operation), zap.Error(err))
	} else {
		log.Warn("Operation rejected", zap.String("operation", operation), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": message})
}

// decodeStrict decodes a single JSON value and rejects unknown fields
func decodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
