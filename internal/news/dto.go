package news

import (
	"time"

	errors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

type CreateNewsDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (d CreateNewsDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("content", d.Content).Required()
	return v.Validate()
}

type UpdateNewsDTO struct {
	Title   patch.Field[string] `json:"title"`
	Content patch.Field[string] `json:"content"`
	Author  patch.Field[string] `json:"author"`
}

func (d UpdateNewsDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Title.Set {
		v.Field("title", d.Title.Value).Required().MaxLength(255)
	}
	if d.Content.Set {
		v.Field("content", d.Content.Value).Required()
	}
	return v.Validate()
}

// ListFilter bounds are inclusive creation instants; nil means open.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}
