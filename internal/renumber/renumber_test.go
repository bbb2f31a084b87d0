// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renumber

import (
	"errors"
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenumberString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "literal index discarded", input: "In [100]:", want: "In [1]:"},
		{name: "empty payload", input: "In []:", want: "In [1]:"},
		{name: "text payload", input: "In [not number]:", want: "In [1]:"},
		{name: "out before any in", input: "Out[100]:", want: "Out[0]:"},
		{name: "out empty payload", input: "Out[]:", want: "Out[0]:"},
		{name: "out text payload", input: "Out[not number]:", want: "Out[0]:"},
		{name: "in then out", input: "In []: Out[]:", want: "In [1]: Out[1]:"},
		{name: "multiline", input: "In []: aaa\nOut[]: bbb", want: "In [1]: aaa\nOut[1]: bbb"},
		{
			name:  "outs share the preceding in",
			input: "In []: In []: Out[]: In []: Out[]: Out[]:",
			want:  "In [1]: In [2]: Out[2]: In [3]: Out[3]: Out[3]:",
		},
		{
			name:  "reset directives",
			input: "In [^20]: In []: Out[]: In [^30]: Out[]: Out[]:",
			want:  "In [20]: In [21]: Out[21]: In [30]: Out[30]: Out[30]:",
		},
		{name: "reset without digits", input: "In [^aaa]:", want: "In [1]:"},
		{name: "reset with sign", input: "In [^-50]:", want: "In [1]:"},
		{name: "reset trailing junk", input: "In [^20aaa]: Out[]:", want: "In [20]: Out[20]:"},
		{name: "reset stops at decimal point", input: "In [^30.4]:", want: "In [30]:"},
		{name: "reset to zero", input: "In [^0]: Out[]: In []:", want: "In [0]: Out[0]: In [1]:"},
		{name: "reset after whitespace", input: "In []: In [  \t^5]:", want: "In [1]: In [5]:"},
		{name: "bare caret", input: "In [7]: In [^]:", want: "In [1]: In [1]:"},
		{name: "prefix before caret", input: "In []: In [_^5]:", want: "In [1]: In [2]:"},
		{name: "leading zeros", input: "In [^007]:", want: "In [7]:"},
		{name: "overflowing digits", input: "In [^99999999999999999999999]:", want: "In [1]:"},
		{
			name:  "malformed markers untouched",
			input: "In [] In[]: In  []: Out[] Out []:",
			want:  "In [] In[]: In  []: Out[] Out []:",
		},
		{name: "payload spans newline", input: "In [a\nb]:", want: "In [1]:"},
		{name: "out cannot swallow an in", input: "Out[In [3]:", want: "Out[In [1]:"},
		{name: "no markers", input: "plain text\nwith ] brackets [ and : colons", want: "plain text\nwith ] brackets [ and : colons"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().RenumberString(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenumberStrings_CounterSpansChunks(t *testing.T) {
	chunks := []string{"In []:\n", "Out[]: In []:\n", "", "Out[]:"}
	got := New().RenumberStrings(chunks)
	assert.Equal(t, "In [1]:\nOut[1]: In [2]:\nOut[2]:", got)
}

func TestRenumber_ResetsBetweenCalls(t *testing.T) {
	r := New()
	first := r.RenumberString("In []: In []:")
	second := r.RenumberString("In []: Out[]:")

	assert.Equal(t, "In [1]: In [2]:", first)
	assert.Equal(t, "In [1]: Out[1]:", second)
}

func TestRenumber_IdentityWithoutMarkers(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		">>> print(1)\n1\n",
		"In[1]: Out [2]: In  [3]:",
		"In [1] Out[2]",
	}
	for _, in := range inputs {
		assert.Equal(t, in, New().RenumberString(in))
	}
}

func TestRenumber_Seq(t *testing.T) {
	var seq iter.Seq[string] = func(yield func(string) bool) {
		for _, s := range []string{"In [^10]:", " Out[]:", "\nIn []:"} {
			if !yield(s) {
				return
			}
		}
	}
	got := New().Renumber(seq)
	assert.Equal(t, "In [10]: Out[10]:\nIn [11]:", got)
}

func TestFeed(t *testing.T) {
	r := New()
	r.Reset()
	r.Feed("In []: x = 1\n")
	r.Feed("")
	r.Feed("Out[9]: 1\n")

	assert.Equal(t, "In [1]: x = 1\nOut[1]: 1\n", r.Output())
	assert.Equal(t, 1, r.Current())
}

func TestStats(t *testing.T) {
	r := New()
	r.RenumberString("In [^5]: Out[]: In []: Out[]: Out[]: In [^]:")

	want := Stats{InMarkers: 3, OutMarkers: 3, Resets: 2, Final: 1}
	if diff := cmp.Diff(want, r.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}

	r.Reset()
	assert.Equal(t, Stats{}, r.Stats())
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		payload string
		want    int
		ok      bool
	}{
		{payload: "", ok: false},
		{payload: "100", ok: false},
		{payload: "text", ok: false},
		{payload: "_^5", ok: false},
		{payload: "5^", ok: false},
		{payload: "^", want: 1, ok: true},
		{payload: "^12", want: 12, ok: true},
		{payload: " ^12", want: 12, ok: true},
		{payload: "\n\t^3x", want: 3, ok: true},
		{payload: "^ 12", want: 1, ok: true},
		{payload: "^-3", want: 1, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, ok := parseDirective(tt.payload)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRenumberValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr string
	}{
		{name: "string", input: "In []:", want: "In [1]:"},
		{name: "string slice", input: []string{"In []:", " Out[]:"}, want: "In [1]: Out[1]:"},
		{name: "any slice of strings", input: []any{"In [^3]:", "Out[]:"}, want: "In [3]:Out[3]:"},
		{name: "bare int", input: 1, wantErr: "int is not text"},
		{name: "nil", input: nil, wantErr: "<nil> is not text"},
		{name: "non-string element", input: []any{1, 2}, wantErr: "element 0 is int"},
		{name: "late non-string element", input: []any{"In []:", 2.5}, wantErr: "element 1 is float64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().RenumberValue(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, ErrContract))
				var ce *ContractError
				assert.True(t, errors.As(err, &ce))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenumberValue_ErrorLeavesNoOutput(t *testing.T) {
	r := New()
	r.RenumberString("In []:")

	_, err := r.RenumberValue([]any{"In []:", 3})
	require.Error(t, err)
	// The failed call must not have started a session.
	assert.Equal(t, "In [1]:", r.Output())
}

func TestRenumberValue_PlainFuncSeq(t *testing.T) {
	seq := func(yield func(string) bool) {
		_ = yield("In [^4]: ") && yield("Out[]:")
	}
	got, err := New().RenumberValue(seq)
	require.NoError(t, err)
	assert.Equal(t, "In [4]: Out[4]:", got)
}

func TestRenumberValue_Seq(t *testing.T) {
	var seq iter.Seq[string] = func(yield func(string) bool) {
		_ = yield("In []:") && yield("In []:")
	}
	got, err := New().RenumberValue(seq)
	require.NoError(t, err)
	assert.Equal(t, "In [1]:In [2]:", got)
}
