// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver for local runs and the
// unit tests of the service and api packages.
package memory

import (
	"recipehub/meal-planner/internal/repository"
	"sync"
)

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.RecipeRepository      = (*RecipeRepository)(nil)
	_ repository.ScheduleRepository    = (*ScheduleRepository)(nil)
	_ repository.TrackerRepository     = (*TrackerRepository)(nil)
	_ repository.SavedRecipeRepository = (*SavedRecipeRepository)(nil)
)

// faults lets tests make a repository fail like an unreachable backend.
type faults struct {
	mu  sync.Mutex
	err error
}

// FailWith makes every subsequent call return err until cleared with nil.
func (f *faults) FailWith(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *faults) fault() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
