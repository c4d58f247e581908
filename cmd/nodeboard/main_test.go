package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNodeArgs(t *testing.T) {
	t.Parallel()

	const id = "4ac3e7de-9d3c-4f0a-a279-1c4f9d6f2a11"

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"nodeboard"},
			want: []string{"nodeboard"},
		},
		{
			name: "direct node id first token",
			in:   []string{"nodeboard", id},
			want: []string{"nodeboard", "open", id},
		},
		{
			name: "direct node id after value flag",
			in:   []string{"nodeboard", "--config", "./conf", id},
			want: []string{"nodeboard", "--config", "./conf", "open", id},
		},
		{
			name: "direct node id after equals flag",
			in:   []string{"nodeboard", "--config=./conf", id},
			want: []string{"nodeboard", "--config=./conf", "open", id},
		},
		{
			name: "direct node id after bool flag",
			in:   []string{"nodeboard", "--demo", id},
			want: []string{"nodeboard", "--demo", "open", id},
		},
		{
			name: "direct node id after double dash",
			in:   []string{"nodeboard", "--config", "./conf", "--", id},
			want: []string{"nodeboard", "--config", "./conf", "--", "open", id},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"nodeboard", "open", id},
			want: []string{"nodeboard", "open", id},
		},
		{
			name: "non-uuid token not rewritten",
			in:   []string{"nodeboard", "wat"},
			want: []string{"nodeboard", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNodeArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectNodeArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
