package user

import (
	errors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

// UpdateUserDTO is a partial update: only keys present in the request are
// applied, and phone/avatarUrl may be cleared with an explicit null.
type UpdateUserDTO struct {
	FullName   patch.Field[string] `json:"fullName"`
	Position   patch.Field[string] `json:"position"`
	Department patch.Field[string] `json:"department"`
	Email      patch.Field[string] `json:"email"`
	Phone      patch.Field[string] `json:"phone"`
	AvatarURL  patch.Field[string] `json:"avatarUrl"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.FullName.Set {
		v.Field("fullName", d.FullName.Value).Required().MaxLength(255)
	}
	if d.Position.Set {
		v.Field("position", d.Position.Value).Required()
	}
	if d.Department.Set {
		v.Field("department", d.Department.Value).Required()
	}
	if d.Email.Set {
		v.Field("email", d.Email.Value).Required().Email()
	}
	return v.Validate()
}

func (d UpdateUserDTO) ApplyTo(u *User) {
	d.FullName.ApplyValue(&u.FullName)
	d.Position.ApplyValue(&u.Position)
	d.Department.ApplyValue(&u.Department)
	d.Email.ApplyValue(&u.Email)
	d.Phone.Apply(&u.Phone)
	d.AvatarURL.Apply(&u.AvatarURL)
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}
