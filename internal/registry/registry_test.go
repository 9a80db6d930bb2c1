package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newWith(names ...string) *Registry {
	r := New()
	r.Reconcile(names)
	return r
}

func TestNew_Empty(t *testing.T) {
	r := New()
	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Names())

	_, ok := r.ResolveIndex(0)
	require.False(t, ok)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		live    []string
		want    []string
	}{
		{
			name: "first report keeps host order",
			live: []string{"c", "a", "b"},
			want: []string{"c", "a", "b"},
		},
		{
			name:    "reordered report keeps first-seen order",
			initial: []string{"a", "b", "c"},
			live:    []string{"c", "b", "a"},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "new names are appended in live order",
			initial: []string{"a", "b"},
			live:    []string{"z", "b", "y", "a"},
			want:    []string{"a", "b", "z", "y"},
		},
		{
			name:    "missing names are dropped",
			initial: []string{"a", "b", "c"},
			live:    []string{"c", "a"},
			want:    []string{"a", "c"},
		},
		{
			name:    "drop and append in one report",
			initial: []string{"a", "b", "c"},
			live:    []string{"d", "c"},
			want:    []string{"c", "d"},
		},
		{
			name:    "empty report empties the roster",
			initial: []string{"a", "b"},
			live:    []string{},
			want:    []string{},
		},
		{
			name:    "nil report empties the roster",
			initial: []string{"a"},
			live:    nil,
			want:    []string{},
		},
		{
			name: "duplicates in one report collapse",
			live: []string{"a", "b", "a"},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newWith(tt.initial...)
			r.Reconcile(tt.live)
			require.Equal(t, tt.want, r.Names())
			require.Equal(t, len(tt.want), r.Len())
			for _, n := range tt.want {
				require.True(t, r.Contains(n), "roster should contain %q", n)
			}
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	r := newWith("a", "b")
	live := []string{"c", "b", "d"}

	r.Reconcile(live)
	first := r.Names()
	r.Reconcile(live)

	require.Equal(t, first, r.Names())
	require.Equal(t, []string{"b", "c", "d"}, first)
}

func TestReconcile_ReappearingNameGoesToBack(t *testing.T) {
	r := newWith("a", "b", "c")

	r.Reconcile([]string{"b", "c"})
	require.False(t, r.Contains("a"))

	r.Reconcile([]string{"a", "b", "c"})
	require.Equal(t, []string{"b", "c", "a"}, r.Names())
}

func TestReconcile_OrderPreservedAcrossUpdates(t *testing.T) {
	r := New()
	updates := [][]string{
		{"x", "a", "y"},
		{"a", "b", "y", "x"},
		{"y", "c", "x", "a"},
		{"c", "x", "d", "a", "y"},
	}

	// x, a and y are present in every update and must keep their relative order.
	for _, live := range updates {
		r.Reconcile(live)

		ix, ok := r.IndexOf("x")
		require.True(t, ok)
		ia, ok := r.IndexOf("a")
		require.True(t, ok)
		iy, ok := r.IndexOf("y")
		require.True(t, ok)
		require.Less(t, ix, ia)
		require.Less(t, ia, iy)
	}
	require.Equal(t, []string{"x", "a", "y", "c", "d"}, r.Names())
}

func TestReconcile_DroppedNameLeavesIndex(t *testing.T) {
	r := newWith("a", "b")
	r.Reconcile([]string{"b"})

	_, ok := r.IndexOf("a")
	require.False(t, ok)
	require.False(t, r.Contains("a"))
}

func TestResolveIndex_RoundTrip(t *testing.T) {
	names := []string{"alpha", "beta", "gamma", "delta"}
	r := newWith(names...)

	for i, want := range names {
		got, ok := r.ResolveIndex(i)
		require.True(t, ok, "index %d", i)
		require.Equal(t, want, got)
	}

	for _, i := range []int{len(names), len(names) + 1, 100, -1} {
		t.Run(fmt.Sprintf("out of range %d", i), func(t *testing.T) {
			got, ok := r.ResolveIndex(i)
			require.False(t, ok)
			require.Empty(t, got)
		})
	}
}

func TestNames_ReturnsCopy(t *testing.T) {
	r := newWith("a", "b")
	names := r.Names()
	names[0] = "mutated"

	require.Equal(t, []string{"a", "b"}, r.Names())
}
