package platform

import (
	"github.com/aretw0/fittrack/pkg/core"
)

// New opens the data directory and wires the domain service.
//
//	svc, err := fittrack.New("./data", fittrack.WithFoodTable(foods))
func New(path string, opts ...Option) (*core.Service, error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	return core.NewService(repo, core.ServiceConfig{
		Food:     o.foodTable,
		Exercise: o.exerciseTable,
		Logger:   o.logger,
		Clock:    o.clock,
	}), nil
}
