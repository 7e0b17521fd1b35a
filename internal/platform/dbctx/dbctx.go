package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context together with the transaction a repo call
// should join. A nil Tx means the repo uses its own connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Of returns a Context bound to the repo's own connection.
func Of(ctx context.Context) Context {
	return Context{Ctx: ctx}
}
