package warehouses

import "strings"

// Input is the create/update payload of a warehouse.
type Input struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (s *Service) validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	return s.validator.Struct(in)
}
