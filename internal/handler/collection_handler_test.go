package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/apperror"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/model"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore[T model.Record] struct {
	entity model.Entity

	createRes *repository.InsertResult
	createErr error
	created   []T

	bulkCount int
	bulkErr   error
	bulkGot   []T

	page    *repository.Page[T]
	pageErr error
	pageReq repository.PageRequest

	all    []T
	allErr error

	updateRes *repository.UpdateResult
	updateErr error
	updateID  string
	updateGot T
}

func (f *fakeStore[T]) Entity() model.Entity { return f.entity }

func (f *fakeStore[T]) Create(_ context.Context, record T) (*repository.InsertResult, error) {
	f.created = append(f.created, record)
	return f.createRes, f.createErr
}

func (f *fakeStore[T]) BulkImport(_ context.Context, records []T) (int, error) {
	f.bulkGot = records
	return f.bulkCount, f.bulkErr
}

func (f *fakeStore[T]) ListPage(_ context.Context, req repository.PageRequest) (*repository.Page[T], error) {
	f.pageReq = req
	if f.page != nil {
		f.page.Page, f.page.Limit = req.Page, req.Limit
	}
	return f.page, f.pageErr
}

func (f *fakeStore[T]) ListAll(context.Context) ([]T, error) {
	return f.all, f.allErr
}

func (f *fakeStore[T]) Update(_ context.Context, id string, record T) (*repository.UpdateResult, error) {
	f.updateID, f.updateGot = id, record
	return f.updateRes, f.updateErr
}

func serve[T model.Record](store Store[T], method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	NewCollectionHandler[T](store).Register(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateHandler(t *testing.T) {
	t.Run("returns acknowledgment", func(t *testing.T) {
		store := &fakeStore[model.Project]{
			entity:    model.ProjectEntity,
			createRes: &repository.InsertResult{Acknowledged: true, InsertedID: "65a1f0c2e4b0a1b2c3d4e5f6"},
		}

		rec := serve[model.Project](store, http.MethodPost, "/projects",
			`{"project_name":"ERP rollout","customer_name":"Acme","year":"2024"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, true, body["acknowledged"])
		assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", body["insertedId"])
		require.Len(t, store.created, 1)
		assert.Equal(t, model.Text("ERP rollout"), store.created[0].ProjectName)
		assert.Equal(t, model.Text("2024"), store.created[0].Year)
	})

	t.Run("numeric year is stored as text", func(t *testing.T) {
		store := &fakeStore[model.Project]{
			entity:    model.ProjectEntity,
			createRes: &repository.InsertResult{Acknowledged: true, InsertedID: "65a1f0c2e4b0a1b2c3d4e5f6"},
		}

		rec := serve[model.Project](store, http.MethodPost, "/projects", `{"project_name":"ERP","year":2024}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, store.created, 1)
		assert.Equal(t, model.Text("2024"), store.created[0].Year)
	})

	t.Run("duplicate is a client error", func(t *testing.T) {
		store := &fakeStore[model.Customer]{
			entity:    model.CustomerEntity,
			createErr: apperror.DuplicateKey("Customer with this name already exists", errors.New("E11000")),
		}

		rec := serve[model.Customer](store, http.MethodPost, "/customers", `{"name":"Acme"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Customer with this name already exists", decodeMap(t, rec)["error"])
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &fakeStore[model.Department]{
			entity:    model.DepartmentEntity,
			createErr: apperror.StorageUnavailable("Failed to create department", errors.New("timeout")),
		}

		rec := serve[model.Department](store, http.MethodPost, "/departments", `{"department_name":"Finance"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to create department", decodeMap(t, rec)["error"])
	})

	t.Run("unknown fields are rejected before storage", func(t *testing.T) {
		store := &fakeStore[model.Designation]{entity: model.DesignationEntity}

		rec := serve[model.Designation](store, http.MethodPost, "/designations",
			`{"designation":"Engineer","salary":1000}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request data", decodeMap(t, rec)["error"])
		assert.Empty(t, store.created)
	})

	t.Run("malformed json", func(t *testing.T) {
		store := &fakeStore[model.Customer]{entity: model.CustomerEntity}

		rec := serve[model.Customer](store, http.MethodPost, "/customers", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.created)
	})
}

func TestBulkImportHandler(t *testing.T) {
	invalid := []struct {
		name string
		body string
	}{
		{"empty array", `[]`},
		{"object", `{"project_name":"ERP"}`},
		{"string", `"projects"`},
		{"empty body", ``},
		{"unknown field", `[{"project_name":"ERP","owner":"x"}]`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore[model.Project]{entity: model.ProjectEntity}

			rec := serve[model.Project](store, http.MethodPost, "/projects/all", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Expected an array of projects", decodeMap(t, rec)["error"])
			assert.Nil(t, store.bulkGot)
		})
	}

	t.Run("reports inserted count", func(t *testing.T) {
		store := &fakeStore[model.Customer]{entity: model.CustomerEntity, bulkCount: 4}

		rec := serve[model.Customer](store, http.MethodPost, "/customers/all",
			`[{"name":"A"},{"name":"B"},{"name":"Existing"},{"name":"D"},{"name":"E"}]`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(4), body["insertedCount"])
		assert.Len(t, store.bulkGot, 5)
		assert.Equal(t, model.Text("Existing"), store.bulkGot[2].Name)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &fakeStore[model.Customer]{
			entity:  model.CustomerEntity,
			bulkErr: apperror.StorageUnavailable("Failed to import customers", errors.New("network")),
		}

		rec := serve[model.Customer](store, http.MethodPost, "/customers/all", `[{"name":"A"}]`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to import customers", decodeMap(t, rec)["error"])
	})
}

func TestListPageHandler(t *testing.T) {
	t.Run("defaults to first page of ten", func(t *testing.T) {
		store := &fakeStore[model.Department]{
			entity: model.DepartmentEntity,
			page:   &repository.Page[model.Department]{Total: 0, Items: []model.Department{}},
		}

		rec := serve[model.Department](store, http.MethodGet, "/departments", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, repository.PageRequest{Page: 1, Limit: 10}, store.pageReq)
		body := decodeMap(t, rec)
		assert.Equal(t, float64(1), body["page"])
		assert.Equal(t, float64(10), body["limit"])
		assert.Equal(t, []interface{}{}, body["departments"])
	})

	t.Run("second page of twenty five", func(t *testing.T) {
		items := make([]model.Project, 10)
		for i := range items {
			items[i] = model.Project{ID: primitive.NewObjectID(), ProjectName: "p"}
		}
		store := &fakeStore[model.Project]{
			entity: model.ProjectEntity,
			page:   &repository.Page[model.Project]{Total: 25, TotalPages: 3, Items: items},
		}

		rec := serve[model.Project](store, http.MethodGet, "/projects?page=2&limit=10", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, repository.PageRequest{Page: 2, Limit: 10}, store.pageReq)
		body := decodeMap(t, rec)
		assert.Equal(t, float64(25), body["total"])
		assert.Equal(t, float64(2), body["page"])
		assert.Equal(t, float64(3), body["totalPages"])
		assert.Len(t, body["projects"], 10)
	})

	t.Run("non numeric params fall back to defaults", func(t *testing.T) {
		store := &fakeStore[model.Customer]{
			entity: model.CustomerEntity,
			page:   &repository.Page[model.Customer]{Items: []model.Customer{}},
		}

		serve[model.Customer](store, http.MethodGet, "/customers?page=abc&limit=", "")

		assert.Equal(t, repository.PageRequest{Page: 1, Limit: 10}, store.pageReq)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &fakeStore[model.Customer]{
			entity:  model.CustomerEntity,
			pageErr: apperror.StorageUnavailable("Failed to fetch customers", errors.New("down")),
		}

		rec := serve[model.Customer](store, http.MethodGet, "/customers", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch customers", decodeMap(t, rec)["error"])
	})
}

func TestListAllHandler(t *testing.T) {
	t.Run("returns a json array", func(t *testing.T) {
		id := primitive.NewObjectID()
		store := &fakeStore[model.Designation]{
			entity: model.DesignationEntity,
			all:    []model.Designation{{ID: id, Designation: "Engineer", DesignationStatus: "active"}},
		}

		rec := serve[model.Designation](store, http.MethodGet, "/designations/all", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var items []map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, id.Hex(), items[0]["_id"])
		assert.Equal(t, "Engineer", items[0]["designation"])
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &fakeStore[model.Project]{
			entity: model.ProjectEntity,
			allErr: apperror.StorageUnavailable("Failed to fetch projects", errors.New("down")),
		}

		rec := serve[model.Project](store, http.MethodGet, "/projects/all", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch projects", decodeMap(t, rec)["error"])
	})
}

func TestUpdateHandler(t *testing.T) {
	t.Run("forwards id and full record", func(t *testing.T) {
		id := primitive.NewObjectID().Hex()
		store := &fakeStore[model.Customer]{
			entity:    model.CustomerEntity,
			updateRes: &repository.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1},
		}

		rec := serve[model.Customer](store, http.MethodPatch, "/customers/"+id, `{"name":"Acme","status":"inactive"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, store.updateID)
		assert.Equal(t, model.Customer{Name: "Acme", Status: "inactive"}, store.updateGot)
		assert.Equal(t, float64(1), decodeMap(t, rec)["matchedCount"])
	})

	t.Run("numeric phone is accepted", func(t *testing.T) {
		store := &fakeStore[model.Customer]{
			entity:    model.CustomerEntity,
			updateRes: &repository.UpdateResult{Acknowledged: true, MatchedCount: 1},
		}

		rec := serve[model.Customer](store, http.MethodPatch, "/customers/"+primitive.NewObjectID().Hex(),
			`{"name":"Acme","phone":8801700000000}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.Text("8801700000000"), store.updateGot.Phone)
	})

	t.Run("unknown id is not an error", func(t *testing.T) {
		store := &fakeStore[model.Project]{
			entity:    model.ProjectEntity,
			updateRes: &repository.UpdateResult{Acknowledged: true},
		}

		rec := serve[model.Project](store, http.MethodPatch, "/projects/"+primitive.NewObjectID().Hex(), `{"project_name":"X"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, float64(0), body["matchedCount"])
		assert.Nil(t, body["upsertedId"])
	})

	t.Run("malformed id", func(t *testing.T) {
		store := &fakeStore[model.Project]{
			entity:    model.ProjectEntity,
			updateErr: apperror.InvalidInput("Invalid project id", errors.New("the provided hex string is not a valid ObjectID")),
		}

		rec := serve[model.Project](store, http.MethodPatch, "/projects/123", `{"project_name":"X"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid project id", decodeMap(t, rec)["error"])
		assert.Equal(t, "123", store.updateID)
	})
}
