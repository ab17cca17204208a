package controllers

import (
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// AdminRoutes is a back-office resource that can mount itself on a router group
type AdminRoutes interface {
	Name() string
	Register(group *gin.RouterGroup)
}

// AdminResource is the generic JSON CRUD back-office for one table
type AdminResource[T any] struct {
	name string
	db   *gorm.DB

	// decorate fills computed fields before an item is returned
	decorate func(c *gin.Context, item *T)
	// afterDelete cleans up anything the row pointed at
	afterDelete func(c *gin.Context, item *T)
}

// NewAdminResource creates a CRUD resource mounted under /<name>
func NewAdminResource[T any](name string, db *gorm.DB) *AdminResource[T] {
	return &AdminResource[T]{name: name, db: db}
}

// Name returns the URL segment of the resource
func (r *AdminResource[T]) Name() string {
	return r.name
}

// Register mounts list/get/create/update/delete under the group
func (r *AdminResource[T]) Register(group *gin.RouterGroup) {
	g := group.Group("/" + r.name)
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.POST("", r.Create)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}

// AdminResources returns every back-office resource in display order
func (ctl *Controller) AdminResources() []AdminRoutes {
	products := NewAdminResource[models.Product]("products", ctl.db)
	products.decorate = func(c *gin.Context, p *models.Product) {
		ctl.populateImageURL(c, p)
	}
	products.afterDelete = func(c *gin.Context, p *models.Product) {
		ctl.deleteProductImage(c, p.ImageKey)
	}

	return []AdminRoutes{
		NewAdminResource[models.Customer]("customers", ctl.db),
		NewAdminResource[models.Order]("orders", ctl.db),
		NewAdminResource[models.DeliveryPerson]("delivery-people", ctl.db),
		products,
		NewAdminResource[models.MenuSection]("menu-sections", ctl.db),
	}
}

// ListAdminResources handles GET /admin/api/resources
func ListAdminResources(resources []AdminRoutes) gin.HandlerFunc {
	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.Name())
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    names,
		})
	}
}

// List handles GET /admin/api/<name>?page=&per_page=
func (r *AdminResource[T]) List(c *gin.Context) {
	page, perPage := pagination(c)
	pk, err := r.primaryKey()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read the table layout")
		return
	}

	db := r.db.WithContext(c.Request.Context())

	var total int64
	if err := db.Model(new(T)).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count records")
		return
	}

	items := []T{}
	err = db.Order(clause.OrderByColumn{Column: clause.Column{Name: pk.DBName}}).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list records")
		return
	}

	if r.decorate != nil {
		for i := range items {
			r.decorate(c, &items[i])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

// Get handles GET /admin/api/<name>/:id
func (r *AdminResource[T]) Get(c *gin.Context) {
	item, ok := r.load(c)
	if !ok {
		return
	}
	r.respond(c, http.StatusOK, item)
}

// Create handles POST /admin/api/<name>
func (r *AdminResource[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := r.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&item).Error; err != nil {
		r.respondWriteError(c, err)
		return
	}

	r.respond(c, http.StatusCreated, &item)
}

// Update handles PUT /admin/api/<name>/:id. The body is merged onto the
// stored row; the primary key always comes from the path.
func (r *AdminResource[T]) Update(c *gin.Context) {
	item, ok := r.load(c)
	if !ok {
		return
	}

	pk, err := r.primaryKey()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read the table layout")
		return
	}

	ctx := c.Request.Context()
	itemValue := reflect.ValueOf(item).Elem()
	key, _ := pk.ValueOf(ctx, itemValue)

	if err := c.ShouldBindJSON(item); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := pk.Set(ctx, itemValue, key); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to keep the record key")
		return
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		r.respondWriteError(c, err)
		return
	}

	r.respond(c, http.StatusOK, item)
}

// Delete handles DELETE /admin/api/<name>/:id
func (r *AdminResource[T]) Delete(c *gin.Context) {
	item, ok := r.load(c)
	if !ok {
		return
	}

	if err := r.db.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		r.respondWriteError(c, err)
		return
	}

	if r.afterDelete != nil {
		r.afterDelete(c, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Record deleted",
	})
}

// load fetches the row named by :id, answering 404 when there is none
func (r *AdminResource[T]) load(c *gin.Context) (*T, bool) {
	pk, err := r.primaryKey()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read the table layout")
		return nil, false
	}

	var id any = c.Param("id")
	if pk.DataType == schema.Uint || pk.DataType == schema.Int {
		n, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
			return nil, false
		}
		id = n
	}

	var item T
	err = r.db.WithContext(c.Request.Context()).
		Where(clause.Eq{Column: clause.Column{Name: pk.DBName}, Value: id}).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load record")
		return nil, false
	}
	return &item, true
}

func (r *AdminResource[T]) primaryKey() (*schema.Field, error) {
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, err
	}
	if stmt.Schema.PrioritizedPrimaryField == nil {
		return nil, errors.New("table has no single primary key")
	}
	return stmt.Schema.PrioritizedPrimaryField, nil
}

func (r *AdminResource[T]) respond(c *gin.Context, status int, item *T) {
	if r.decorate != nil {
		r.decorate(c, item)
	}
	c.JSON(status, gin.H{
		"success": true,
		"data":    item,
	})
}

func (r *AdminResource[T]) respondWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrPasswordRequired):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case utils.IsUniqueViolation(err):
		respondError(c, http.StatusConflict, "CONFLICT", "A record with the same key already exists")
	case utils.IsConstraintViolation(err):
		respondError(c, http.StatusBadRequest, "CONSTRAINT_VIOLATION", "The record breaks a database constraint")
	default:
		log.Printf("Failed to write %s record: %v", r.name, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save record")
	}
}

func pagination(c *gin.Context) (page, perPage int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err = strconv.Atoi(c.Query("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
