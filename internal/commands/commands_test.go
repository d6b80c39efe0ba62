package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	return r.err
}

func (r *recorder) ShowWindow() error     { return r.record("show") }
func (r *recorder) Refresh() error        { return r.record("refresh") }
func (r *recorder) ExpandAll() error      { return r.record("expand") }
func (r *recorder) CollapseAll() error    { return r.record("collapse") }
func (r *recorder) ListGroupings() error  { return r.record("groupings") }
func (r *recorder) GoToDefinition() error { return r.record("goto") }

func (r *recorder) Run(dryRun bool) error {
	if dryRun {
		return r.record("run dry")
	}
	return r.record("run")
}

func (r *recorder) SetGrouping(name string) error { return r.record("group " + name) }

func TestExecuteDispatches(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"show-window", "show"},
		{"refresh", "refresh"},
		{"run", "run"},
		{"run-dry", "run dry"},
		{"expand-all", "expand"},
		{"collapse-all", "collapse"},
		{"set-grouping flat", "group flat"},
		{"  set-grouping   project  ", "group project"},
		{"list-groupings", "groupings"},
		{"go-to-definition", "goto"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := &recorder{}
			require.NoError(t, ExecuteLine(r, tt.line))
			assert.Equal(t, []string{tt.want}, r.calls)
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	r := &recorder{}

	err := Execute(r, "launch")
	require.ErrorIs(t, err, ErrUnknownCommand)

	err = ExecuteLine(r, "   ")
	require.ErrorIs(t, err, ErrUnknownCommand)

	err = Execute(r, SetGrouping)
	require.EqualError(t, err, "usage: set-grouping <grouping>")

	err = Execute(r, Refresh, "extra")
	require.EqualError(t, err, "usage: refresh")
	assert.Empty(t, r.calls)
}

func TestExecutePropagatesTargetError(t *testing.T) {
	boom := errors.New("boom")
	r := &recorder{err: boom}
	require.ErrorIs(t, Execute(r, Run), boom)
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	require.Len(t, all, 9)
	all[0].Name = "changed"
	c, ok := Lookup(ShowWindow)
	require.True(t, ok)
	assert.Equal(t, ShowWindow, c.Name)
}
