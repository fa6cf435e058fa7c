package main

import (
	"fmt"

	"github.com/fwojciec/docrag"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docrag.Errorf(docrag.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Store.DeleteAll(deps.Ctx)
	if err != nil {
		return errorf(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted %d chunks\n", n)
	return nil
}

// Run executes the create-index command.
func (c *CreateIndexCmd) Run(deps *Dependencies) error {
	if deps.Indexer == nil {
		return errorf(deps, docrag.Errorf(docrag.ENOTIMPLEMENTED, "create-index requires the mongodb store"))
	}
	if c.Dimensions <= 0 {
		return errorf(deps, docrag.Errorf(docrag.EINVALID, "dimensions must be positive, got %d", c.Dimensions))
	}

	name, err := deps.Indexer.CreateVectorIndex(deps.Ctx, c.Dimensions)
	if err != nil {
		return errorf(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Created vector index %q (%d dimensions)\n", name, c.Dimensions)
	return nil
}
