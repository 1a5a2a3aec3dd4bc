// Package handlers exposes the survey resources over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/logger"
	"surveyserver/metrics"
	"surveyserver/models"
	"surveyserver/services"
	"surveyserver/storage"
)

type API struct {
	Service        *services.Service
	Storage        storage.StorageAPI
	Log            *logger.Logger
	ThumbSize      uint
	FileCacheTime  time.Duration // max-age of originals and icons
	ThumbCacheTime time.Duration
}

func New(service *services.Service, store storage.StorageAPI, log *logger.Logger, thumbSize uint) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{
		Service:        service,
		Storage:        store,
		Log:            log,
		ThumbSize:      thumbSize,
		FileCacheTime:  time.Hour,
		ThumbCacheTime: time.Hour,
	}
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Entity string `json:"entity,omitempty"`
	ID     uint   `json:"id,omitempty"`
	Field  string `json:"field,omitempty"`
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:                http.StatusNotFound,
	apperr.KindHasDependents:           http.StatusForbidden,
	apperr.KindConstraintViolation:     http.StatusUnprocessableEntity,
	apperr.KindHierarchyTooDeep:        http.StatusUnprocessableEntity,
	apperr.KindInvalidHotspotReference: http.StatusUnprocessableEntity,
	apperr.KindGeometryKind:            http.StatusUnprocessableEntity,
	apperr.KindNotARectangle:           http.StatusUnprocessableEntity,
	apperr.KindInvalidArgument:         http.StatusBadRequest,
	apperr.KindTooLarge:                http.StatusRequestEntityTooLarge,
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(optionalValue, models.Optional[string]{}, models.Optional[uint]{}, models.Optional[float64]{})
	}
}

// fieldName reports validation failures by their JSON or query name
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

func optionalValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(interface{ Validatable() interface{} }); ok {
		return o.Validatable()
	}
	return nil
}

// fail writes err as JSON with the status of its kind
func (a *API) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		a.Log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	metrics.RejectionsTotal.WithLabelValues(kind.String()).Inc()
	response := ErrorResponse{Error: err.Error(), Kind: kind.String()}
	if details, ok := apperr.Details(err); ok {
		response.Entity = details.Entity
		response.ID = details.ID
		response.Field = details.Field
	}
	c.AbortWithStatusJSON(status, response)
}

func (a *API) paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		a.fail(c, apperr.InvalidArgument("id", "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// bind decodes the JSON body into payload and runs its Validate method, if any
func (a *API) bind(c *gin.Context, payload interface{}) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		a.fail(c, bindError(err, "body"))
		return false
	}
	if v, ok := payload.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			a.fail(c, err)
			return false
		}
	}
	return true
}

func (a *API) bindQuery(c *gin.Context, query interface{}) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		a.fail(c, bindError(err, "query"))
		return false
	}
	return true
}

func bindError(err error, source string) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return apperr.InvalidArgument(fe.Field(), "must satisfy "+rule)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.InvalidArgument(typeErr.Field, "must be of type "+typeErr.Type.String())
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return apperr.InvalidArgument(source, err.Error())
}

type listQuery struct {
	SortBy   string `form:"sort_by"`
	SortDesc bool   `form:"sort_desc"`
	Skip     *int   `form:"skip" binding:"omitempty,min=0"`
	Limit    *int   `form:"limit" binding:"omitempty,min=1"`
}

func (a *API) listOptions(c *gin.Context) (db.ListOptions, bool) {
	q := listQuery{}
	if !a.bindQuery(c, &q) {
		return db.ListOptions{}, false
	}
	return db.ListOptions{SortBy: db.SortField(q.SortBy), SortDesc: q.SortDesc, Skip: q.Skip, Limit: q.Limit}, true
}

func getOne[T any, P db.EntityPtr[T]](a *API) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.paramID(c)
		if !ok {
			return
		}
		entity, err := services.Get[T, P](c.Request.Context(), a.Service, id)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, entity)
	}
}

func updateWith[U any, R any](a *API, update func(context.Context, uint, *U) (*R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.paramID(c)
		if !ok {
			return
		}
		payload := new(U)
		if !a.bind(c, payload) {
			return
		}
		result, err := update(c.Request.Context(), id, payload)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteWith(a *API, remove func(context.Context, uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.paramID(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id); err != nil {
			a.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// listed writes a list result, never null
func (a *API) listed(c *gin.Context, items interface{}, err error) {
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *API) created(c *gin.Context, entity interface{}, err error) {
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}
