package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"surveyserver/apperr"
	"surveyserver/models"
)

// Now stamps created/modified. Tests may replace it.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type SortField string

const (
	SortByID       SortField = "id"
	SortByCreated  SortField = "created"
	SortByModified SortField = "modified"
	SortByName     SortField = "name"
)

// ListOptions controls ordering and paging. Nil Skip/Limit mean no offset/no cap.
type ListOptions struct {
	SortBy   SortField
	SortDesc bool
	Skip     *int
	Limit    *int
}

// Scope narrows a List or Count query, e.g. by parent id
type Scope = func(*gorm.DB) *gorm.DB

// Where is a Scope for a plain condition
func Where(query interface{}, args ...interface{}) Scope {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}

// EntityPtr is satisfied by *T for every entity T, e.g. db.Get[models.Site](tx, id)
type EntityPtr[T any] interface {
	*T
	models.Entity
}

func (o ListOptions) validate(entity models.Entity) error {
	switch o.SortBy {
	case "", SortByID, SortByCreated, SortByModified:
	case SortByName:
		if _, ok := entity.(models.Named); !ok {
			return apperr.InvalidArgument("sort_by", entity.EntityName()+" cannot be sorted by name")
		}
	default:
		return apperr.InvalidArgument("sort_by", "must be one of id, created, modified, name")
	}
	if o.Skip != nil && *o.Skip < 0 {
		return apperr.InvalidArgument("skip", "must not be negative")
	}
	if o.Limit != nil && *o.Limit < 0 {
		return apperr.InvalidArgument("limit", "must not be negative")
	}
	return nil
}

func Get[T any, P EntityPtr[T]](tx *gorm.DB, id uint) (*T, error) {
	var item T
	if err := tx.Take(&item, id).Error; err != nil {
		return nil, translate(err, P(&item).EntityName(), id)
	}
	return &item, nil
}

// Exists probes only the id column
func Exists[T any, P EntityPtr[T]](tx *gorm.DB, id uint) (bool, error) {
	var ids []uint
	err := tx.Model(P(new(T))).Where("id = ?", id).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Require fails with NotFound naming field when id does not exist
func Require[T any, P EntityPtr[T]](tx *gorm.DB, id uint, field string) error {
	found, err := Exists[T, P](tx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.MissingReference(P(new(T)).EntityName(), id, field)
	}
	return nil
}

func List[T any, P EntityPtr[T]](tx *gorm.DB, opts ListOptions, scopes ...Scope) ([]T, error) {
	if err := opts.validate(P(new(T))); err != nil {
		return nil, err
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortByID
	}
	query := tx.Model(P(new(T))).Scopes(scopes...).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: string(sortBy)}, Desc: opts.SortDesc})
	if sortBy != SortByID {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: opts.SortDesc})
	}
	if opts.Skip != nil {
		query = query.Offset(*opts.Skip)
	}
	if opts.Limit != nil {
		query = query.Limit(*opts.Limit)
	}
	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func Count[T any, P EntityPtr[T]](tx *gorm.DB, scopes ...Scope) (int64, error) {
	var count int64
	err := tx.Model(P(new(T))).Scopes(scopes...).Count(&count).Error
	return count, err
}

// Create assigns id and created; modified stays empty until the first update
func Create[T any, P EntityPtr[T]](tx *gorm.DB, item P) error {
	meta := item.Meta()
	meta.ID = 0
	meta.Created = Now()
	meta.Modified = nil
	if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
		return translate(err, item.EntityName(), 0)
	}
	return nil
}

// Update writes every column but id and created, and stamps modified
func Update[T any, P EntityPtr[T]](tx *gorm.DB, item P) error {
	meta := item.Meta()
	now := Now()
	meta.Modified = &now
	result := tx.Model(item).Select("*").Omit("id", "created", clause.Associations).Updates(item)
	if result.Error != nil {
		return translate(result.Error, item.EntityName(), meta.ID)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(item.EntityName(), meta.ID)
	}
	return nil
}

func Delete[T any, P EntityPtr[T]](tx *gorm.DB, id uint) error {
	item := P(new(T))
	result := tx.Delete(item, id)
	if result.Error != nil {
		return translate(result.Error, item.EntityName(), id)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(item.EntityName(), id)
	}
	return nil
}

// DeleteWhere removes every row matching the scopes and reports how many went
func DeleteWhere[T any, P EntityPtr[T]](tx *gorm.DB, scopes ...Scope) (int64, error) {
	item := P(new(T))
	result := tx.Scopes(scopes...).Delete(item)
	if result.Error != nil {
		return 0, translate(result.Error, item.EntityName(), 0)
	}
	return result.RowsAffected, nil
}
