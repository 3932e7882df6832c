package report

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	Base
	events []string
}

func (r *recorder) Generated(stmt string)    { r.events = append(r.events, "generated "+stmt) }
func (r *recorder) Executed(out dut.Outcome) { r.events = append(r.events, "executed "+out.Statement) }
func (r *recorder) Error(out dut.Outcome)    { r.events = append(r.events, "error "+out.Statement) }

func failed(stmt string, query uint64, msg string) dut.Outcome {
	return dut.Outcome{
		Statement: stmt,
		State:     dut.StateFailed,
		Failure:   &dut.ExecutionFailure{Statement: stmt, Err: errors.New(msg)},
		Query:     query,
	}
}

func succeeded(stmt string, query uint64) dut.Outcome {
	return dut.Outcome{Statement: stmt, State: dut.StateSucceeded, Query: query}
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, Base{}, b}

	m.Generated("SELECT 1")
	Dispatch(m, succeeded("SELECT 1", 1))
	m.Generated("SELEC 2")
	Dispatch(m, failed("SELEC 2", 2, "syntax error"))

	expected := []string{"generated SELECT 1", "executed SELECT 1", "generated SELEC 2", "error SELEC 2"}
	assert.Equal(t, expected, a.events)
	assert.Equal(t, expected, b.events)
}

func TestBase_NoOps(t *testing.T) {
	var l Logger = Base{}
	assert.NotPanics(t, func() {
		l.Generated("x")
		l.Executed(succeeded("x", 1))
		l.Error(failed("x", 2, "boom"))
	})
}

func TestDispatch_SkipsCanceled(t *testing.T) {
	r := &recorder{}
	Dispatch(r, dut.Outcome{Statement: "SELECT SLEEP(10)", State: dut.StateCanceled, Query: 1})
	assert.Empty(t, r.events)
}
