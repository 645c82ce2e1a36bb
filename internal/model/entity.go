package model

import "go.mongodb.org/mongo-driver/bson"

// Entity describes one document collection exposed by the API
type Entity struct {
	// Name is the singular display name used in messages, e.g. "Customer"
	Name string
	// Collection is the collection name, the URL segment and the list key
	Collection string
	// UniqueField is the bson field with a unique index, empty when none is declared
	UniqueField string
}

// Record is implemented by every stored document type
type Record interface {
	// Identifier returns the store-assigned id, zero for records not yet inserted
	Identifier() string
	// UpdateSet returns the full field set written by an update. Every
	// recognized field is included, empty values too.
	UpdateSet() bson.D
}

var (
	ProjectEntity     = Entity{Name: "Project", Collection: "projects"}
	CustomerEntity    = Entity{Name: "Customer", Collection: "customers", UniqueField: "name"}
	DepartmentEntity  = Entity{Name: "Department", Collection: "departments", UniqueField: "department_name"}
	DesignationEntity = Entity{Name: "Designation", Collection: "designations", UniqueField: "designation"}
)

// Entities lists every exposed collection
var Entities = []Entity{ProjectEntity, CustomerEntity, DepartmentEntity, DesignationEntity}
