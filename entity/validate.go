package entity

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the profile against its field constraints.
func (p *UserProfile) Validate() error {
	return validate.Struct(p)
}
