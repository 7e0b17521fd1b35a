package testutil

import (
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

// WriteFault fails the Nth create, update or delete statement issued on a
// database. Statements before it run normally.
type WriteFault struct {
	n     int64
	err   error
	count atomic.Int64
	hit   atomic.Bool
}

// Writes reports how many write statements have been seen so far.
func (f *WriteFault) Writes() int64 { return f.count.Load() }

// Fired reports whether the fault has been injected.
func (f *WriteFault) Fired() bool { return f.hit.Load() }

// FailNthWrite installs a WriteFault on db. Register it at most once per database.
func FailNthWrite(tb testing.TB, db *gorm.DB, n int, err error) *WriteFault {
	tb.Helper()
	f := &WriteFault{n: int64(n), err: err}
	inject := func(tx *gorm.DB) {
		if f.count.Add(1) == f.n {
			f.hit.Store(true)
			_ = tx.AddError(f.err)
		}
	}
	cb := db.Callback()
	if e := cb.Create().Before("gorm:create").Register("testutil:fault_create", inject); e != nil {
		tb.Fatalf("register create fault: %v", e)
	}
	if e := cb.Update().Before("gorm:update").Register("testutil:fault_update", inject); e != nil {
		tb.Fatalf("register update fault: %v", e)
	}
	if e := cb.Delete().Before("gorm:delete").Register("testutil:fault_delete", inject); e != nil {
		tb.Fatalf("register delete fault: %v", e)
	}
	return f
}
