package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/workspace/defs.go
//   type FrameDef struct {
// 		 ...
//       Start	string	`yaml:"start" validate:"required"`
//       State	string	`yaml:"state" validate:"omitempty,framestate"`
//   }
//
// The custom framestate tag accepts the display-state names a frame may
// carry (unknown, available, ready, current, missing, error).

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/polarhour/frameline/internal/timeline"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// framestate: the value parses as a frame display state.
		_ = validatorInst.RegisterValidation("framestate", func(fl validator.FieldLevel) bool {
			_, err := timeline.ParseFrameState(fl.Field().String())
			return err == nil
		})
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
